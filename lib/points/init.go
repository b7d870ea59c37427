package points

import (
	logging "github.com/inconshreveable/log15"

	"boscoin.io/tokenpoll/lib/common"
)

var log logging.Logger = logging.New("module", "points")

func SetLogging(level logging.Lvl, handler logging.Handler) {
	common.SetLogging(log, level, handler)
}
