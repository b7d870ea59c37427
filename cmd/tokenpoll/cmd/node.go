package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	logging "github.com/inconshreveable/log15"
	"github.com/mattn/go-isatty"
	"github.com/oklog/run"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"

	"boscoin.io/tokenpoll/cmd/tokenpoll/common"
	tpcommon "boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/common/keypair"
	tperrors "boscoin.io/tokenpoll/lib/errors"
	"boscoin.io/tokenpoll/lib/metrics"
	"boscoin.io/tokenpoll/lib/network"
	"boscoin.io/tokenpoll/lib/network/httpcache"
	"boscoin.io/tokenpoll/lib/node/runner"
	"boscoin.io/tokenpoll/lib/points"
	"boscoin.io/tokenpoll/lib/program"
	"boscoin.io/tokenpoll/lib/storage"
)

const defaultNetwork string = "http"
const defaultPort int = 12345
const defaultHost string = "0.0.0.0"
const defaultLogLevel logging.Lvl = logging.LvlInfo

var (
	flagKPSecretSeed   string = tpcommon.GetENVValue("TOKENPOLL_SECRET_SEED", "")
	flagNetworkID      string = tpcommon.GetENVValue("TOKENPOLL_NETWORK_ID", "")
	flagLogLevel       string = tpcommon.GetENVValue("TOKENPOLL_LOG_LEVEL", defaultLogLevel.String())
	flagLogOutput      string = tpcommon.GetENVValue("TOKENPOLL_LOG_OUTPUT", "")
	flagVerbose        bool   = tpcommon.GetENVValue("TOKENPOLL_VERBOSE", "0") == "1"
	flagEndpointString string = tpcommon.GetENVValue(
		"TOKENPOLL_ENDPOINT",
		fmt.Sprintf("%s://%s:%d", defaultNetwork, defaultHost, defaultPort),
	)
	flagStorageConfigString string
	flagTLSCertFile         string = tpcommon.GetENVValue("TOKENPOLL_TLS_CERT", "tokenpoll.crt")
	flagTLSKeyFile          string = tpcommon.GetENVValue("TOKENPOLL_TLS_KEY", "tokenpoll.key")
	flagAlias               string = tpcommon.GetENVValue("TOKENPOLL_ALIAS", "")
	flagTreasurySeed        string = tpcommon.GetENVValue("TOKENPOLL_TREASURY_SEED", "")
	flagPointsRedis         string = tpcommon.GetENVValue("TOKENPOLL_POINTS_REDIS", "")
	flagInitialPoints       string = tpcommon.GetENVValue("TOKENPOLL_INITIAL_POINTS", strconv.FormatUint(tpcommon.DefaultInitialPoints, 10))
	flagOperationsLimit     string = tpcommon.GetENVValue("TOKENPOLL_OPERATIONS_LIMIT", strconv.Itoa(tpcommon.DefaultOperationsInTransactionLimit))
	flagNTPServer           string = tpcommon.GetENVValue("TOKENPOLL_NTP_SERVER", tpcommon.DefaultNTPServer)
	flagAccessLog           string = tpcommon.GetENVValue("TOKENPOLL_ACCESS_LOG", "")
	flagHTTPCacheAdapter    string = tpcommon.GetENVValue("TOKENPOLL_HTTP_CACHE_ADAPTER", "")
	flagHTTPCachePoolSize   string = tpcommon.GetENVValue("TOKENPOLL_HTTP_CACHE_POOL_SIZE", strconv.Itoa(tpcommon.HTTPCachePoolSize))
	flagHTTPCacheRedisAddrs common.ListFlags
	flagRateLimitAPI        common.ListFlags
	flagGenesis             string
)

var (
	nodeCmd *cobra.Command

	kp              *keypair.Full
	treasuryKP      *keypair.Full
	nodeEndpoint    *tpcommon.Endpoint
	storageConfig   *storage.Config
	nodeConfig      tpcommon.Config
	genesisKP       *keypair.Full
	genesisSupply   tpcommon.Amount
	genesisDecimals uint8
	logLevel        logging.Lvl
	log             logging.Logger = logging.New("module", "main")
)

func init() {
	var err error

	nodeCmd = &cobra.Command{
		Use:   "node",
		Short: "Run tokenpoll node",
		Run: func(c *cobra.Command, args []string) {
			parseFlagsNode()

			runNode()
		},
	}

	// storage
	var currentDirectory string
	if currentDirectory, err = os.Getwd(); err != nil {
		common.PrintFlagsError(nodeCmd, "--storage", err)
	}
	if currentDirectory, err = filepath.Abs(currentDirectory); err != nil {
		common.PrintFlagsError(nodeCmd, "--storage", err)
	}
	flagStorageConfigString = tpcommon.GetENVValue("TOKENPOLL_STORAGE", fmt.Sprintf("file://%s/db", currentDirectory))

	if v := tpcommon.GetENVValue("TOKENPOLL_RATE_LIMIT_API", ""); len(v) > 0 {
		flagRateLimitAPI = strings.Fields(v)
	}
	if v := tpcommon.GetENVValue("TOKENPOLL_HTTP_CACHE_REDIS_ADDRS", ""); len(v) > 0 {
		flagHTTPCacheRedisAddrs = strings.Fields(v)
	}

	nodeCmd.Flags().StringVar(&flagGenesis, "genesis", flagGenesis, "performs the 'genesis' command before running node. Syntax: supply[,decimals]")
	nodeCmd.Flags().StringVar(&flagKPSecretSeed, "secret-seed", flagKPSecretSeed, "secret seed of this node")
	nodeCmd.Flags().StringVar(&flagNetworkID, "network-id", flagNetworkID, "network id")
	nodeCmd.Flags().StringVar(&flagLogLevel, "log-level", flagLogLevel, "log level, {crit, error, warn, info, debug}")
	nodeCmd.Flags().StringVar(&flagLogOutput, "log-output", flagLogOutput, "set log output file")
	nodeCmd.Flags().BoolVar(&flagVerbose, "verbose", flagVerbose, "verbose")
	nodeCmd.Flags().StringVar(&flagEndpointString, "endpoint", flagEndpointString, "endpoint uri to listen on")
	nodeCmd.Flags().StringVar(&flagStorageConfigString, "storage", flagStorageConfigString, "storage uri")
	nodeCmd.Flags().StringVar(&flagTLSCertFile, "tls-cert", flagTLSCertFile, "tls certificate file, used with https endpoint")
	nodeCmd.Flags().StringVar(&flagTLSKeyFile, "tls-key", flagTLSKeyFile, "tls key file, used with https endpoint")
	nodeCmd.Flags().StringVar(&flagAlias, "alias", flagAlias, "alias of this node")
	nodeCmd.Flags().StringVar(&flagTreasurySeed, "treasury-seed", flagTreasurySeed, "secret seed of the genesis mint authority; exchanging points is disabled without it")
	nodeCmd.Flags().StringVar(&flagPointsRedis, "points-redis", flagPointsRedis, "redis address of the points store, like 'localhost:6379'; points are kept in memory without it")
	nodeCmd.Flags().StringVar(&flagInitialPoints, "initial-points", flagInitialPoints, "points of a wallet seen for the first time")
	nodeCmd.Flags().StringVar(&flagOperationsLimit, "operations-limit", flagOperationsLimit, "operations limit in a transaction")
	nodeCmd.Flags().StringVar(&flagNTPServer, "ntp-server", flagNTPServer, "ntp server the ledger clock follows")
	nodeCmd.Flags().StringVar(&flagAccessLog, "access-log", flagAccessLog, "write the http access log to this file")
	nodeCmd.Flags().StringVar(&flagHTTPCacheAdapter, "http-cache-adapter", flagHTTPCacheAdapter, "http cache adapter, {mem, redis, nop}")
	nodeCmd.Flags().StringVar(&flagHTTPCachePoolSize, "http-cache-pool-size", flagHTTPCachePoolSize, "entries of the 'mem' http cache")
	nodeCmd.Flags().Var(&flagHTTPCacheRedisAddrs, "http-cache-redis-addrs", "redis server of the 'redis' http cache: <name>=<address>, can be given multiple times")
	nodeCmd.Flags().Var(&flagRateLimitAPI, "rate-limit-api", "rate limit of the api: [<ip>=]<limit>-<period>, eg. '100-S' or '127.0.0.1=1000-M'")

	rootCmd.AddCommand(nodeCmd)
}

func parseFlagRateLimit(l common.ListFlags, defaultRate string) (tpcommon.RateLimitRule, error) {
	rule := tpcommon.NewRateLimitRule(tpcommon.MustParseRate(defaultRate))
	for _, s := range l {
		if err := rule.Parse(s); err != nil {
			return rule, err
		}
	}

	return rule, nil
}

func parseFlagRedisAddrs(l common.ListFlags) (map[string]string, error) {
	addrs := map[string]string{}
	for i, s := range l {
		name, addr := fmt.Sprintf("server%d", i), s
		if n := strings.Index(s, "="); n >= 0 {
			name, addr = s[:n], s[n+1:]
		}
		if len(name) < 1 || len(addr) < 1 {
			return nil, fmt.Errorf("invalid redis address: %q", s)
		}
		addrs[name] = addr
	}

	return addrs, nil
}

func parseFlagsNode() {
	var err error

	if len(flagNetworkID) < 1 {
		common.PrintFlagsError(nodeCmd, "--network-id", errors.New("--network-id must be given"))
	}
	if len(flagKPSecretSeed) < 1 {
		common.PrintFlagsError(nodeCmd, "--secret-seed", errors.New("must be given"))
	}

	if kp, err = common.ParseSecretSeed(flagKPSecretSeed); err != nil {
		common.PrintFlagsError(nodeCmd, "--secret-seed", err)
	}

	if len(flagTreasurySeed) > 0 {
		if treasuryKP, err = common.ParseSecretSeed(flagTreasurySeed); err != nil {
			common.PrintFlagsError(nodeCmd, "--treasury-seed", err)
		}
	}

	// `--genesis` initializes an empty storage before starting, which allows
	// one-step startup from scratch.
	if len(flagGenesis) > 0 {
		csv := strings.Split(flagGenesis, ",")
		if len(csv) > 2 {
			common.PrintFlagsError(nodeCmd, "--genesis",
				errors.New("--genesis expects supply[,decimals], but more than 1 comma detected"))
		}
		if genesisSupply, err = common.ParseAmountFromString(csv[0]); err != nil {
			common.PrintFlagsError(nodeCmd, "--genesis", err)
		}
		genesisDecimals = tpcommon.DefaultTokenDecimals
		if len(csv) == 2 {
			var d uint64
			if d, err = strconv.ParseUint(csv[1], 10, 8); err != nil {
				common.PrintFlagsError(nodeCmd, "--genesis", err)
			}
			genesisDecimals = uint8(d)
		}

		genesisKP = kp
		if treasuryKP != nil {
			genesisKP = treasuryKP
		}
	}

	if p, err := tpcommon.ParseEndpoint(flagEndpointString); err != nil {
		common.PrintFlagsError(nodeCmd, "--endpoint", err)
	} else {
		nodeEndpoint = p
		flagEndpointString = nodeEndpoint.String()
	}

	queries := nodeEndpoint.Query()
	if strings.ToLower(nodeEndpoint.Scheme) == "https" {
		if _, err = os.Stat(flagTLSCertFile); os.IsNotExist(err) {
			common.PrintFlagsError(nodeCmd, "--tls-cert", err)
		}
		if _, err = os.Stat(flagTLSKeyFile); os.IsNotExist(err) {
			common.PrintFlagsError(nodeCmd, "--tls-key", err)
		}
		queries.Set("TLSCertFile", flagTLSCertFile)
		queries.Set("TLSKeyFile", flagTLSKeyFile)
	}
	if len(queries.Get("IdleTimeout")) < 1 {
		queries.Set("IdleTimeout", "3s")
	}
	nodeEndpoint.RawQuery = queries.Encode()

	if storageConfig, err = storage.NewConfigFromString(flagStorageConfigString); err != nil {
		common.PrintFlagsError(nodeCmd, "--storage", err)
	}

	nodeConfig = tpcommon.NewConfig([]byte(flagNetworkID))
	nodeConfig.NTPServer = flagNTPServer

	if nodeConfig.InitialPoints, err = strconv.ParseUint(flagInitialPoints, 10, 64); err != nil {
		common.PrintFlagsError(nodeCmd, "--initial-points", err)
	}

	if nodeConfig.OpsLimit, err = strconv.Atoi(flagOperationsLimit); err != nil || nodeConfig.OpsLimit < 1 {
		common.PrintFlagsError(nodeCmd, "--operations-limit", fmt.Errorf("must be a positive integer: %q", flagOperationsLimit))
	}

	if nodeConfig.RateLimitRuleAPI, err = parseFlagRateLimit(flagRateLimitAPI, tpcommon.RateLimitAPI); err != nil {
		common.PrintFlagsError(nodeCmd, "--rate-limit-api", err)
	}

	nodeConfig.HTTPCacheAdapter = flagHTTPCacheAdapter
	if nodeConfig.HTTPCachePoolSize, err = strconv.Atoi(flagHTTPCachePoolSize); err != nil {
		common.PrintFlagsError(nodeCmd, "--http-cache-pool-size", err)
	}
	if nodeConfig.HTTPCacheRedisAddrs, err = parseFlagRedisAddrs(flagHTTPCacheRedisAddrs); err != nil {
		common.PrintFlagsError(nodeCmd, "--http-cache-redis-addrs", err)
	}
	switch nodeConfig.HTTPCacheAdapter {
	case "", tpcommon.HTTPCacheNopAdapterName, tpcommon.HTTPCacheMemoryAdapterName:
	case tpcommon.HTTPCacheRedisAdapterName:
		if len(nodeConfig.HTTPCacheRedisAddrs) < 1 {
			common.PrintFlagsError(nodeCmd, "--http-cache-redis-addrs", errors.New("must be given with the 'redis' adapter"))
		}
	default:
		common.PrintFlagsError(nodeCmd, "--http-cache-adapter", fmt.Errorf("unknown adapter: %q", nodeConfig.HTTPCacheAdapter))
	}

	if logLevel, err = logging.LvlFromString(flagLogLevel); err != nil {
		common.PrintFlagsError(nodeCmd, "--log-level", err)
	}

	var logHandler logging.Handler

	var formatter logging.Format
	if isatty.IsTerminal(os.Stdout.Fd()) {
		formatter = logging.TerminalFormat()
	} else {
		formatter = tpcommon.JsonFormatEx(false, true)
	}
	logHandler = logging.StreamHandler(os.Stdout, formatter)

	if len(flagLogOutput) < 1 {
		flagLogOutput = "<stdout>"
	} else {
		if logHandler, err = logging.FileHandler(flagLogOutput, tpcommon.JsonFormatEx(false, true)); err != nil {
			common.PrintFlagsError(nodeCmd, "--log-output", err)
		}
	}

	if logLevel == logging.LvlDebug {
		logHandler = logging.CallerFileHandler(logHandler)
	}

	tpcommon.SetLogging(log, logLevel, logHandler)
	program.SetLogging(logLevel, logHandler)
	points.SetLogging(logLevel, logHandler)
	network.SetLogging(logLevel, logHandler)
	httpcache.SetLogging(logLevel, logHandler)
	runner.SetLogging(logLevel, logHandler)

	log.Info("Starting tokenpoll")

	// print flags
	parsedFlags := []interface{}{}
	parsedFlags = append(parsedFlags, "\n\tnetwork-id", flagNetworkID)
	parsedFlags = append(parsedFlags, "\n\tendpoint", flagEndpointString)
	parsedFlags = append(parsedFlags, "\n\tstorage", flagStorageConfigString)
	parsedFlags = append(parsedFlags, "\n\tlog-level", flagLogLevel)
	parsedFlags = append(parsedFlags, "\n\tlog-output", flagLogOutput)
	parsedFlags = append(parsedFlags, "\n\ttreasury", treasuryKP != nil)
	parsedFlags = append(parsedFlags, "\n\tpoints-redis", flagPointsRedis)
	parsedFlags = append(parsedFlags, "\n\tinitial-points", nodeConfig.InitialPoints)
	parsedFlags = append(parsedFlags, "\n\toperations-limit", nodeConfig.OpsLimit)
	parsedFlags = append(parsedFlags, "\n\tntp-server", flagNTPServer)
	parsedFlags = append(parsedFlags, "\n\thttp-cache-adapter", flagHTTPCacheAdapter)
	parsedFlags = append(parsedFlags, "\n\trate-limit-api", nodeConfig.RateLimitRuleAPI.Default.Formatted)

	var rl []interface{}
	for ip, rate := range nodeConfig.RateLimitRuleAPI.ByIPAddress {
		rl = append(rl, fmt.Sprintf("\n\trate-limit-api#%s", ip), rate.Formatted)
	}
	parsedFlags = append(parsedFlags, rl...)

	log.Debug("parsed flags:", parsedFlags...)

	if flagVerbose {
		http2.VerboseLogs = true
	}
}

func newPointsStore() (points.Store, error) {
	if len(flagPointsRedis) < 1 {
		log.Warn("points are kept in memory; they are lost when the node stops")
		return points.NewMemoryStore(nodeConfig.InitialPoints), nil
	}

	return points.NewRedisStoreFromAddr(flagPointsRedis, nodeConfig.InitialPoints)
}

func newExchanger(p *program.Program) (*points.Exchanger, error) {
	if treasuryKP == nil {
		log.Warn("--treasury-seed is not given; exchanging points is disabled")
		return nil, nil
	}

	genesis, err := program.GetGenesis(p.Storage())
	if err != nil {
		return nil, errors.Wrap(err, "points exchange needs a genesis; run with --genesis or the 'genesis' command first")
	}
	if genesis.Authority != treasuryKP.Address() {
		return nil, errors.Errorf("--treasury-seed is not the genesis authority, %s", genesis.Authority)
	}

	store, err := newPointsStore()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to points redis, %s", flagPointsRedis)
	}

	return points.NewExchanger(store, p, treasuryKP, genesis.Mint), nil
}

func runNode() {
	metrics.InitPrometheusMetrics()
	metrics.SetVersion()

	st, err := storage.NewStorage(storageConfig)
	if err != nil {
		log.Crit("failed to initialize storage", "error", err)

		os.Exit(1)
	}
	defer st.Close()

	clock := tpcommon.NewNTPClock(nodeConfig.NTPServer)
	if err := clock.Sync(); err != nil {
		log.Warn("failed to query ntp server; the system clock is used until the next sync", "server", clock.Server(), "error", err)
	}

	p := program.NewProgram(st, nodeConfig, clock)

	if genesisKP != nil {
		if _, err := program.MakeGenesis(p, genesisKP, genesisDecimals, genesisSupply); err == tperrors.GenesisExists {
			log.Debug("genesis already exists; --genesis is ignored")
		} else if err != nil {
			log.Crit("failed to create genesis", "error", err)

			os.Exit(1)
		}
	}

	exchanger, err := newExchanger(p)
	if err != nil {
		log.Crit("failed to prepare the points exchange", "error", err)

		os.Exit(1)
	}

	serverConfig, err := network.NewServerConfigFromEndpoint(nodeEndpoint)
	if err != nil {
		log.Crit("invalid endpoint", "error", err)

		os.Exit(1)
	}
	server := network.NewServer(serverConfig)

	if len(flagAccessLog) > 0 {
		var f io.WriteCloser
		if f, err = os.OpenFile(flagAccessLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			log.Crit("failed to open access log", "error", err)

			os.Exit(1)
		}
		defer f.Close()
		server.AccessLog(f)
	}

	nr, err := runner.NewNodeRunner(kp, nodeConfig, p, exchanger, server, nodeEndpoint, flagAlias)
	if err != nil {
		log.Crit("failed to launch node", "error", err)

		os.Exit(1)
	}

	// Execution group.
	var g run.Group
	{
		g.Add(func() error {
			if err := nr.Start(); err != nil {
				log.Crit("failed to start node", "error", err)
				return err
			}
			return nil
		}, func(error) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := nr.Stop(ctx); err != nil {
				log.Error("failed to stop node", "error", err)
			}
		})
	}
	{
		cancel := make(chan struct{})
		g.Add(func() error {
			ticker := time.NewTicker(tpcommon.DefaultNTPSyncInterval)
			defer ticker.Stop()

			for {
				select {
				case <-ticker.C:
					if err := clock.Sync(); err != nil {
						log.Warn("failed to sync ntp", "server", clock.Server(), "error", err)
					} else {
						log.Debug("ntp synced", "offset", clock.Offset())
					}
				case <-cancel:
					return nil
				}
			}
		}, func(error) {
			close(cancel)
		})
	}
	{
		cancel := make(chan struct{})
		g.Add(func() error {
			return common.Interrupt(cancel)
		}, func(error) {
			close(cancel)
		})
	}

	if err := g.Run(); err != nil {
		log.Info("node stopped", "reason", err)
	}
}
