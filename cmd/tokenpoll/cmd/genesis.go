package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"boscoin.io/tokenpoll/cmd/tokenpoll/common"
	tpcommon "boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/common/keypair"
	"boscoin.io/tokenpoll/lib/program"
	"boscoin.io/tokenpoll/lib/storage"
)

const (
	initialSupply = "1,000,000,000,000,000,000"
)

var (
	flagSupply   string = tpcommon.GetENVValue("TOKENPOLL_GENESIS_SUPPLY", initialSupply)
	flagDecimals string = tpcommon.GetENVValue("TOKENPOLL_GENESIS_DECIMALS", strconv.Itoa(int(tpcommon.DefaultTokenDecimals)))
)

func init() {
	var genesisCmd = &cobra.Command{
		Use:   "genesis <authority secret seed>",
		Short: "initialize new ledger",
		Args:  cobra.ExactArgs(1),
		Run: func(c *cobra.Command, args []string) {
			flagName, genesis, err := MakeGenesis(args[0], flagNetworkID, flagSupply, flagDecimals, flagStorageConfigString)
			if len(flagName) != 0 || err != nil {
				common.PrintFlagsError(c, flagName, err)
			}

			fmt.Println("successfully created genesis")
			fmt.Printf("     mint: %s\n", genesis.Mint)
			fmt.Printf(" treasury: %s\n", genesis.Treasury)
			fmt.Printf("   supply: %s\n", genesis.Supply)
		},
	}

	genesisCmd.Flags().StringVar(&flagSupply, "supply", flagSupply, "tokens minted into the treasury, in base units")
	genesisCmd.Flags().StringVar(&flagDecimals, "decimals", flagDecimals, "decimals of the mint")
	genesisCmd.Flags().StringVar(&flagStorageConfigString, "storage", flagStorageConfigString, "storage uri")
	genesisCmd.Flags().StringVar(&flagNetworkID, "network-id", flagNetworkID, "network id")

	rootCmd.AddCommand(genesisCmd)
}

//
// MakeGenesis creates the ledger mint and the treasury holding of the
// authority in the storage.
//
// The returned string is the name of the flag which errored. When the storage
// already has a genesis, the error is `errors.GenesisExists` and the flag
// name is empty.
//
func MakeGenesis(seed, networkID, supplyStr, decimalsStr, storageURI string) (string, *program.Genesis, error) {
	var err error
	var authority *keypair.Full

	if authority, err = common.ParseSecretSeed(seed); err != nil {
		return "<authority secret seed>", nil, err
	}

	if len(networkID) == 0 {
		return "--network-id", nil, errors.New("--network-id must be provided")
	}

	if len(supplyStr) == 0 {
		supplyStr = initialSupply
	}

	var supply tpcommon.Amount
	if supply, err = common.ParseAmountFromString(supplyStr); err != nil {
		return "--supply", nil, err
	}

	decimals := tpcommon.DefaultTokenDecimals
	if len(decimalsStr) > 0 {
		var d uint64
		if d, err = strconv.ParseUint(decimalsStr, 10, 8); err != nil {
			return "--decimals", nil, err
		}
		decimals = uint8(d)
	}

	// Use the default value
	if len(storageURI) == 0 {
		storageURI = tpcommon.GetENVValue("TOKENPOLL_STORAGE", "")
		if len(storageURI) == 0 {
			if currentDirectory, err := os.Getwd(); err == nil {
				if currentDirectory, err = filepath.Abs(currentDirectory); err == nil {
					storageURI = fmt.Sprintf("file://%s/db", currentDirectory)
				}
			}
			if len(storageURI) == 0 {
				return "--storage", nil, errors.New("failed to find the current directory")
			}
		}
	}

	var storageConfig *storage.Config
	if storageConfig, err = storage.NewConfigFromString(storageURI); err != nil {
		return "--storage", nil, err
	}

	st, err := storage.NewStorage(storageConfig)
	if err != nil {
		return "--storage", nil, errors.Wrap(err, "failed to initialize storage")
	}
	defer st.Close()

	p := program.NewProgram(st, tpcommon.NewConfig([]byte(networkID)), tpcommon.SystemClock{})

	genesis, err := program.MakeGenesis(p, authority, decimals, supply)
	if err != nil {
		return "", nil, err
	}

	return "", genesis, nil
}
