package key

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"boscoin.io/tokenpoll/cmd/tokenpoll/common"
	"boscoin.io/tokenpoll/lib/common/keypair"
)

var (
	GenerateCmd *cobra.Command

	flagPublicKey bool
	flagFormat    string
)

type KeyPair struct {
	Seed       string  `json:"seed" yaml:"seed"`
	Address    string  `json:"address" yaml:"address"`
	Passphrase *string `json:"passphrase,omitempty" yaml:"passphrase,omitempty"`
}

var defaultTemplate = template.Must(template.New("").Funcs(template.FuncMap{
	"valueString": func(input *string) string {
		if input == nil {
			return ""
		}
		return *input
	},
}).Parse(`   Secret Seed: {{ .Seed }}
Public Address: {{ .Address }}{{ if valueString .Passphrase }}
    Passphrase: "{{ .Passphrase|valueString }}"{{ end }}
`))

func defaultEncode(v interface{}, w io.Writer) error {
	return defaultTemplate.Execute(w, v)
}

func onelineEncode(v interface{}, w io.Writer) error {
	kp := v.(KeyPair)
	_, err := fmt.Fprintf(w, "%s %s\n", kp.Seed, kp.Address)
	return err
}

func init() {
	GenerateCmd = &cobra.Command{
		Use:   "generate [<passphrase> | <secret seed>]",
		Short: "Generate keypair",
		Run: func(c *cobra.Command, args []string) {
			input := strings.TrimSpace(strings.Join(args, " "))

			if flagPublicKey && len(input) == 0 {
				common.PrintFlagsError(c, "--parse", errors.New("--parse needs <secret seed>"))
			}

			kp, err := GenerateKP(input, flagPublicKey)
			if err != nil {
				common.PrintFlagsError(c, "<input>", err)
			}

			if err := Print(os.Stdout, flagFormat, kp, input, flagPublicKey); err != nil {
				common.PrintFlagsError(c, "--format", err)
			}
		},
	}

	GenerateCmd.Flags().BoolVar(&flagPublicKey, "parse", false, "parse secret seed")
	GenerateCmd.Flags().StringVar(&flagFormat, "format", "default", "format={default, json, oneline, prettyjson, yaml}")
}

func Print(w io.Writer, format string, kp *keypair.Full, input string, fromSeed bool) error {
	v := KeyPair{Seed: kp.Seed(), Address: kp.Address()}
	if !fromSeed && len(input) > 0 {
		v.Passphrase = &input
	}

	if format == "oneline" {
		return onelineEncode(v, w)
	}

	return common.EncodeWith(format, v, w, defaultEncode)
}

// GenerateKP returns a random keypair, the keypair of a secret seed or the
// keypair derived from a passphrase.
func GenerateKP(seedOrPassphrase string, fromSeed bool) (full *keypair.Full, err error) {
	if len(seedOrPassphrase) == 0 {
		full, err = keypair.RandomCanFail()
	} else if fromSeed {
		full, err = common.ParseSecretSeed(seedOrPassphrase)
	} else {
		full = keypair.Master(seedOrPassphrase).(*keypair.Full)
	}

	return
}
