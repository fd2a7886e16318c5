package main

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/gnostr-org/tcl/oo"
)

func newDumpCmd(sh *shell) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "dump <script>",
		Short: "Evaluate a script and print a snapshot of the resulting object graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			interp, _, err := sh.evalFile(args[0])
			if err != nil {
				return err
			}
			snap := interp.Snapshot()
			data, err := encodeSnapshot(snap, format)
			if err != nil {
				return err
			}
			sh.logger.Debug("snapshot encoded",
				zap.String("format", format),
				zap.Int("objects", len(snap.Objects)),
				zap.Int("bytes", len(data)))
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml, json or cbor")
	return cmd
}

// encodeSnapshot renders snap in the named format. CBOR output uses the
// canonical encoding so equal graphs produce equal bytes.
func encodeSnapshot(snap oo.Snapshot, format string) ([]byte, error) {
	switch format {
	case "yaml", "yml":
		return yaml.Marshal(snap)
	case "json":
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "cbor":
		em, err := cbor.CanonicalEncOptions().EncMode()
		if err != nil {
			return nil, err
		}
		return em.Marshal(snap)
	default:
		return nil, fmt.Errorf("unknown dump format %q", format)
	}
}
