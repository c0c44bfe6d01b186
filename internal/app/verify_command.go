package app

import (
	"strings"

	clierr "github.com/ggonzalez94/nearcli-wallet/internal/errors"
	"github.com/ggonzalez94/nearcli-wallet/internal/model"
	"github.com/ggonzalez94/nearcli-wallet/internal/wallet"
	"github.com/spf13/cobra"
)

func (s *runtimeState) newVerifyCommand() *cobra.Command {
	var hashArg, signerID string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Confirm a transaction by hash or explorer URL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(hashArg) == "" {
				return clierr.New(clierr.CodeUsage, "--hash must not be empty")
			}
			rpcURL, err := s.rpcURL()
			if err != nil {
				return err
			}
			hash := wallet.ParseHashInput(strings.TrimSpace(hashArg))
			outcome, err := s.poller.Poll(s.context(cmd), rpcURL, hash, signerID)
			if err != nil {
				return err
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), model.Verification{
				TxHash:   hash,
				SignerID: signerID,
				Network:  s.settings.Network.String(),
				RPCURL:   rpcURL,
				Outcome:  outcome,
			})
		},
	}
	cmd.Flags().StringVar(&hashArg, "hash", "", "Transaction hash, explorer URL or Transaction ID line")
	cmd.Flags().StringVar(&signerID, "signer", "", "Signer account ID")
	_ = cmd.MarkFlagRequired("hash")
	_ = cmd.MarkFlagRequired("signer")
	return cmd
}
