package kv

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/uKV/lib/resource"
	"github.com/spf13/cobra"
)

var (
	createCmd = &cobra.Command{
		Use:     "create [key] [resource]",
		Short:   "Stores a resource under a key",
		Long:    `Stores a resource under a key, replacing any previous value. The resource is given in its JSON form, e.g. '{"Single":{"name":"Alice"}}' or '{"List":[{"name":"Bob"}]}'`,
		Example: `  ukv kv create alice '{"Single":{"name":"Alice"}}'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := parseResource(args[1])
			if err != nil {
				return err
			}
			if err := rpcStore.Create(args[0], res); err != nil {
				return err
			}
			fmt.Println("created successfully")
			return nil
		},
	}
	readCmd = &cobra.Command{
		Use:   "read [key]",
		Short: "Reads the resource stored under a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			res, ok, err := rpcStore.Read(key)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Printf("key=%s, found=false\n", key)
				return nil
			}
			fmt.Printf("key=%s, found=true, resource=%s\n", key, res)
			return nil
		},
	}
	updateCmd = &cobra.Command{
		Use:   "update [key] [resource]",
		Short: "Replaces the resource stored under a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := parseResource(args[1])
			if err != nil {
				return err
			}
			if err := rpcStore.Update(args[0], res); err != nil {
				return err
			}
			fmt.Println("updated successfully")
			return nil
		},
	}
	deleteCmd = &cobra.Command{
		Use:   "delete [key]",
		Short: "Deletes a key (succeeds for absent keys)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rpcStore.Delete(args[0]); err != nil {
				return err
			}
			fmt.Println("deleted successfully")
			return nil
		},
	}
	appendCmd = &cobra.Command{
		Use:     "append [key] [items]",
		Short:   "Appends items to a list resource",
		Example: `  ukv kv append team '[{"name":"Bob"},{"name":"Carol"}]'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var items []resource.Human
			if err := jsonCodec.Deserialize([]byte(args[1]), &items); err != nil {
				return fmt.Errorf("items must be a JSON array: %w", err)
			}
			if err := rpcStore.AppendToList(args[0], items); err != nil {
				return err
			}
			fmt.Println("appended successfully")
			return nil
		},
	}
	removeCmd = &cobra.Command{
		Use:     "remove [key] [item]",
		Short:   "Removes every matching item from a list resource",
		Example: `  ukv kv remove team '{"name":"Bob"}'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var item resource.Human
			if err := jsonCodec.Deserialize([]byte(args[1]), &item); err != nil {
				return fmt.Errorf("item must be a JSON object: %w", err)
			}
			if err := rpcStore.RemoveFromList(args[0], item); err != nil {
				return err
			}
			fmt.Println("removed successfully")
			return nil
		},
	}
	rawCmd = &cobra.Command{
		Use:     "raw [datagram...]",
		Short:   "Sends the arguments as one raw datagram and prints the reply",
		Example: `  ukv kv raw READ alice`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := rpcTransport.Send([]byte(strings.Join(args, " ")))
			if err != nil {
				return err
			}
			fmt.Println(string(resp))
			return nil
		},
	}
)

// parseResource decodes the JSON form of a resource given on the command line
func parseResource(text string) (resource.Resource[resource.Human], error) {
	var res resource.Resource[resource.Human]
	if err := jsonCodec.Deserialize([]byte(text), &res); err != nil {
		return res, fmt.Errorf("resource must be JSON like {\"Single\":{...}} or {\"List\":[...]}: %w", err)
	}
	return res, nil
}
