package kv

import (
	"github.com/ValentinKolb/uKV/cmd/util"
	"github.com/ValentinKolb/uKV/lib/resource"
	"github.com/ValentinKolb/uKV/lib/store"
	"github.com/ValentinKolb/uKV/rpc/client"
	"github.com/ValentinKolb/uKV/rpc/serializer"
	"github.com/ValentinKolb/uKV/rpc/transport"
	"github.com/ValentinKolb/uKV/rpc/transport/udp"
	"github.com/spf13/cobra"
)

var (
	rpcStore     store.IStore[resource.Human]
	rpcTransport transport.IRPCClientTransport
	jsonCodec    = serializer.NewJSONSerializer()

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:                "kv",
		Short:              "Perform resource operations against a ukv server",
		PersistentPreRunE:  setupKVClient,
		PersistentPostRunE: closeKVClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitEnv)

	// Add common RPC flags to the KV command
	util.SetupRPCClientFlags(KeyValueCommands)

	// Add subcommands
	KeyValueCommands.AddCommand(createCmd)
	KeyValueCommands.AddCommand(readCmd)
	KeyValueCommands.AddCommand(updateCmd)
	KeyValueCommands.AddCommand(deleteCmd)
	KeyValueCommands.AddCommand(appendCmd)
	KeyValueCommands.AddCommand(removeCmd)
	KeyValueCommands.AddCommand(rawCmd)
	KeyValueCommands.AddCommand(perfTestCmd)
}

// setupKVClient initializes the RPC store client
func setupKVClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Get client configuration
	config := util.GetClientConfig()

	// Create the KV store client (connects the transport)
	rpcTransport = udp.NewUDPClientTransport()
	s, err := client.NewRPCStore[resource.Human](
		*config,
		rpcTransport,
		jsonCodec,
	)
	if err != nil {
		return err
	}

	rpcStore = s
	return nil
}

// closeKVClient releases the sockets of the transport
func closeKVClient(_ *cobra.Command, _ []string) error {
	if rpcTransport == nil {
		return nil
	}
	return rpcTransport.Close()
}
