package wallet

import (
	"fmt"
	"io"
	"text/template"

	"github.com/spf13/cobra"

	"boscoin.io/tokenpoll/cmd/tokenpoll/common"
	"boscoin.io/tokenpoll/lib/client"
	tpcommon "boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/common/keypair"
	"boscoin.io/tokenpoll/lib/transaction"
	"boscoin.io/tokenpoll/lib/transaction/operation"
)

var (
	flagNetworkID string = tpcommon.GetENVValue("TOKENPOLL_NETWORK_ID", "")
	flagEndpoint  string = tpcommon.GetENVValue("TOKENPOLL_NODE", "http://localhost:12345")
	flagFormat    string = "default"
)

var receiptTemplate = template.Must(template.New("").Parse(`      hash: {{ .Hash }}
    source: {{ .Source }}
  executed: {{ .Executed }}
{{- range .Operations }}
operation#{{ .Index }}: {{ .Type }} {{ .Target }}
{{- end }}
`))

func defaultEncode(v interface{}, w io.Writer) error {
	return receiptTemplate.Execute(w, v)
}

func addCommonFlags(c *cobra.Command) {
	c.Flags().StringVar(&flagEndpoint, "endpoint", flagEndpoint, "endpoint of the node to send the transaction to")
	c.Flags().StringVar(&flagNetworkID, "network-id", flagNetworkID, "network id")
	c.Flags().StringVar(&flagFormat, "format", flagFormat, "format={default, json, prettyjson, yaml}")
}

// connect checks the common flags and returns the client of `--endpoint`.
func connect(c *cobra.Command) *client.Client {
	if len(flagNetworkID) == 0 {
		common.PrintFlagsError(c, "--network-id", fmt.Errorf("a --network-id needs to be provided"))
	}

	endpoint, err := tpcommon.ParseEndpoint(flagEndpoint)
	if err != nil {
		common.PrintFlagsError(c, "--endpoint", err)
	}

	cl, err := client.NewClient(endpoint.String())
	if err != nil {
		common.PrintFlagsError(c, "--endpoint", err)
	}

	return cl
}

func parseSeed(c *cobra.Command, name, seed string) *keypair.Full {
	kp, err := common.ParseSecretSeed(seed)
	if err != nil {
		common.PrintFlagsError(c, name, err)
	}

	return kp
}

func parseAddress(c *cobra.Command, name, address string) string {
	if !tpcommon.IsValidAddress(address) {
		common.PrintFlagsError(c, name, fmt.Errorf("not a public address: %q", address))
	}

	return address
}

// Submit signs the operations in one transaction of kp and sends it.
func Submit(cl *client.Client, networkID []byte, kp *keypair.Full, bodies ...operation.Body) (client.Receipt, error) {
	var ops []operation.Operation
	for _, body := range bodies {
		op, err := operation.NewOperation(body)
		if err != nil {
			return client.Receipt{}, err
		}
		ops = append(ops, op)
	}

	tx, err := transaction.NewTransaction(kp.Address(), ops...)
	if err != nil {
		return client.Receipt{}, err
	}
	if err = tx.Sign(kp, networkID); err != nil {
		return client.Receipt{}, err
	}

	return cl.SubmitTransaction(tx)
}

func printReceipt(c *cobra.Command, w io.Writer, r client.Receipt) {
	if err := common.EncodeWith(flagFormat, r, w, defaultEncode); err != nil {
		common.PrintFlagsError(c, "--format", err)
	}
}
