package storage

import "os"

func CleanDB(path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return
	}

	os.RemoveAll(path)
}

func NewTestStorage() *LevelDBBackend {
	st := &LevelDBBackend{}
	if err := st.Init(&Config{Scheme: "memory"}); err != nil {
		panic(err)
	}

	return st
}

func NewTestFileStorage(path string) *LevelDBBackend {
	st := &LevelDBBackend{}
	if err := st.Init(&Config{Scheme: "file", Path: path}); err != nil {
		panic(err)
	}

	return st
}
