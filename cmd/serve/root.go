package serve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cmdUtil "github.com/ValentinKolb/uKV/cmd/util"
	"github.com/ValentinKolb/uKV/lib/resource"
	"github.com/ValentinKolb/uKV/lib/store"
	"github.com/ValentinKolb/uKV/lib/store/jstore"
	"github.com/ValentinKolb/uKV/rpc/common"
	"github.com/ValentinKolb/uKV/rpc/serializer"
	"github.com/ValentinKolb/uKV/rpc/server"
	"github.com/ValentinKolb/uKV/rpc/transport/udp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the uKV server",
		Long:    `Start the uKV server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is UKV_<flag> (e.g. UKV_DATA_FILE=/var/lib/ukv/db.json)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(cmdUtil.InitEnv)

	// add flags
	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, common.DefaultEndpoint, cmdUtil.WrapString("The udp address the server binds to (e.g. 0.0.0.0:8080)"))

	key = "data-file"
	ServeCmd.PersistentFlags().String(key, jstore.DefaultPath, cmdUtil.WrapString("Path of the JSON snapshot file. Use :memory: to disable persistence"))

	key = "atomic-snapshot"
	ServeCmd.PersistentFlags().Bool(key, false, cmdUtil.WrapString("Write the snapshot to a temporary file and rename it over the data file instead of overwriting it in place"))

	key = "buffer-size"
	ServeCmd.PersistentFlags().Int(key, common.DefaultBufferSize, cmdUtil.WrapString("Size of the receive buffer in bytes. Longer datagrams are truncated"))

	key = "queue-size"
	ServeCmd.PersistentFlags().Int(key, common.DefaultQueueSize, cmdUtil.WrapString("Capacity of the response queue"))

	key = "strict-json"
	ServeCmd.PersistentFlags().Bool(key, false, cmdUtil.WrapString("Reject payloads with unknown fields or trailing data instead of ignoring them"))

	key = "socket-read-buffer"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("Kernel receive buffer of the socket in KB (0 = OS default)"))

	key = "socket-write-buffer"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("Kernel send buffer of the socket in KB (0 = OS default)"))

	key = "run-for"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("Stop the server after this many seconds (0 = run until SIGINT or SIGTERM)"))

	key = "rate-limit"
	ServeCmd.PersistentFlags().Float64(key, 0, cmdUtil.WrapString("Datagrams per second accepted from a single sender ip, excess datagrams are dropped (0 = no limit)"))

	key = "rate-burst"
	ServeCmd.PersistentFlags().Int(key, common.DefaultRateBurst, cmdUtil.WrapString("Burst size of the per sender rate limit"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Address of an http endpoint serving prometheus metrics at /metrics (e.g. 127.0.0.1:9090, empty = off)"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, common.DefaultLogLevel, cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))

	key = "log-file"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Additionally write logs to this file, rotated by size (empty = stdout only)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// read the configuration from the command line flags and environment variables
	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.DataFile = viper.GetString("data-file")
	serveCmdConfig.AtomicSnapshot = viper.GetBool("atomic-snapshot")
	serveCmdConfig.BufferSize = viper.GetInt("buffer-size")
	serveCmdConfig.QueueSize = viper.GetInt("queue-size")
	serveCmdConfig.StrictJSON = viper.GetBool("strict-json")
	serveCmdConfig.SocketReadBuffer = viper.GetInt("socket-read-buffer") * 1024
	serveCmdConfig.SocketWriteBuffer = viper.GetInt("socket-write-buffer") * 1024
	serveCmdConfig.RunFor = time.Duration(viper.GetInt("run-for")) * time.Second
	serveCmdConfig.RateLimit = viper.GetFloat64("rate-limit")
	serveCmdConfig.RateBurst = viper.GetInt("rate-burst")
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")
	serveCmdConfig.LogFile = viper.GetString("log-file")

	// validate
	if serveCmdConfig.BufferSize <= 0 {
		return errors.New("buffer-size must be positive")
	}
	if serveCmdConfig.QueueSize <= 0 {
		return errors.New("queue-size must be positive")
	}
	if serveCmdConfig.RunFor < 0 {
		return errors.New("run-for must not be negative")
	}
	if _, err := common.ParseLogLevel(serveCmdConfig.LogLevel); err != nil {
		return err
	}

	return nil
}

// run starts the uKV server
func run(_ *cobra.Command, _ []string) error {
	config := *serveCmdConfig

	// configure log output
	var out io.Writer = os.Stdout
	if config.LogFile != "" {
		logFile := common.NewLogFileWriter(config.LogFile)
		defer logFile.Close()
		out = io.MultiWriter(os.Stdout, logFile)
	}
	if err := common.InitLoggers(config, out); err != nil {
		return err
	}

	// create the store
	s, err := jstore.NewJSONStore[resource.Human](jstore.Options{
		Path:          config.DataFile,
		AtomicReplace: config.AtomicSnapshot,
	})
	if err != nil {
		return err
	}
	logStoreInfo("Loaded", s)
	defer logStoreInfo("Stopped with", s)

	// create the server (binds the socket)
	serv, err := server.NewRPCServer[resource.Human](
		config,
		udp.NewUDPServerTransport(),
		s,
		server.NewIStoreServerAdapter[resource.Human](newSerializer(config.StrictJSON)),
	)
	if err != nil {
		return err
	}

	// expose metrics
	if config.MetricsEndpoint != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", server.NewMetricsHandler())
		metricsServer := &http.Server{
			Addr:              config.MetricsEndpoint,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			server.Logger.Infof("Serving metrics on http://%s/metrics", config.MetricsEndpoint)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				server.Logger.Errorf("Metrics endpoint failed: %v", err)
			}
		}()
		defer metricsServer.Close()
	}

	// shut down on SIGINT and SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		serv.Shutdown()
	}()

	if config.RunFor > 0 {
		return serv.ServeFor(config.RunFor)
	}
	return serv.Serve()
}

// newSerializer returns the payload codec selected by the strict-json flag
func newSerializer(strict bool) serializer.IRPCSerializer {
	if strict {
		return serializer.NewStrictJSONSerializer()
	}
	return serializer.NewJSONSerializer()
}

// storeSummary renders the store statistics for the log
func storeSummary(info store.Info) string {
	persistence := "in memory"
	if info.Persistent {
		persistence = fmt.Sprintf("%s, %d snapshot writes, last snapshot %d bytes", info.Path, info.SnapshotCount, info.SnapshotBytes)
	}
	return fmt.Sprintf("%d keys (%d single, %d lists with %d items), %s",
		info.Keys, info.Singles, info.Lists, info.ListItems, persistence)
}

// logStoreInfo logs the store statistics prefixed with prefix
func logStoreInfo(prefix string, s store.IStore[resource.Human]) {
	info, err := s.GetInfo()
	if err != nil {
		server.Logger.Warningf("Failed to read store info: %v", err)
		return
	}
	server.Logger.Infof("%s %s", prefix, storeSummary(info))
}
