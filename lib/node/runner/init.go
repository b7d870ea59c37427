package runner

import (
	logging "github.com/inconshreveable/log15"

	"boscoin.io/tokenpoll/lib/common"
)

var log logging.Logger = logging.New("module", "node_runner")

func SetLogging(level logging.Lvl, handler logging.Handler) {
	common.SetLogging(log, level, handler)
}

func init() {
	SetLogging(logging.LvlCrit, common.DefaultLogHandler)
}
