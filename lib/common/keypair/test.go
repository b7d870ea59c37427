package keypair

// Random returns a new keypair and panics when the system random source
// fails; for test code and throwaway node keys.
func Random() *Full {
	kp, err := RandomCanFail()
	if err != nil {
		panic(err)
	}

	return kp
}
