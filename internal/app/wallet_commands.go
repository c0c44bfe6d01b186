package app

import (
	"encoding/base64"

	"github.com/ggonzalez94/nearcli-wallet/internal/model"
	"github.com/ggonzalez94/nearcli-wallet/internal/wallet"
	"github.com/spf13/cobra"
)

type signedMessageOutput struct {
	wallet.SignedMessage
	Nonce string `json:"nonce"`
}

type signedInOutput struct {
	wallet.SignedInAccount
	Nonce string `json:"nonce"`
}

func (s *runtimeState) newConnectCommand() *cobra.Command {
	var contractID, methods string
	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Connect an account, optionally granting a function-call key for a contract",
		RunE: func(cmd *cobra.Command, _ []string) error {
			accounts, err := s.wallet.SignIn(s.context(cmd), wallet.SignInParams{
				Network:     s.settings.Network,
				ContractID:  contractID,
				MethodNames: splitCSV(methods),
			})
			if err != nil {
				return err
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), accounts)
		},
	}
	cmd.Flags().StringVar(&contractID, "contract", "", "Contract the function-call key is scoped to")
	cmd.Flags().StringVar(&methods, "methods", "", "Allowed method names (comma-separated, default all)")
	return cmd
}

func (s *runtimeState) newConnectSignMessageCommand() *cobra.Command {
	var contractID, methods, message, recipient, nonceArg string
	cmd := &cobra.Command{
		Use:   "connect-sign-message",
		Short: "Connect an account and sign a NEP-413 message in one flow",
		RunE: func(cmd *cobra.Command, _ []string) error {
			nonce, err := parseNonce(nonceArg)
			if err != nil {
				return err
			}
			accounts, err := s.wallet.SignInAndSignMessage(s.context(cmd), wallet.SignInAndSignMessageParams{
				SignInParams: wallet.SignInParams{
					Network:     s.settings.Network,
					ContractID:  contractID,
					MethodNames: splitCSV(methods),
				},
				Message: wallet.MessageParams{Message: message, Recipient: recipient, Nonce: nonce},
			})
			if err != nil {
				return err
			}
			encoded := base64.StdEncoding.EncodeToString(nonce)
			results := make([]signedInOutput, 0, len(accounts))
			for _, a := range accounts {
				results = append(results, signedInOutput{SignedInAccount: a, Nonce: encoded})
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), results)
		},
	}
	cmd.Flags().StringVar(&contractID, "contract", "", "Contract the function-call key is scoped to")
	cmd.Flags().StringVar(&methods, "methods", "", "Allowed method names (comma-separated, default all)")
	cmd.Flags().StringVar(&message, "message", "", "Message to sign")
	cmd.Flags().StringVar(&recipient, "recipient", "", "Recipient the message is bound to")
	cmd.Flags().StringVar(&nonceArg, "nonce", "", "Base64 32-byte nonce (random when omitted)")
	_ = cmd.MarkFlagRequired("message")
	_ = cmd.MarkFlagRequired("recipient")
	return cmd
}

func (s *runtimeState) newDisconnectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Forget the connected account and its function-call key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.wallet.SignOut(s.context(cmd), s.settings.Network); err != nil {
				return err
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), model.Disconnected{Network: s.settings.Network.String()})
		},
	}
}

func (s *runtimeState) newAccountsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List the connected account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			accounts, err := s.wallet.GetAccounts(s.context(cmd), s.settings.Network)
			if err != nil {
				return err
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), accounts)
		},
	}
}

func (s *runtimeState) newSendCommand() *cobra.Command {
	var receiverID, actionsArg string
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Sign and send one transaction through near-cli-rs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			actions, err := parseActions(actionsArg)
			if err != nil {
				return err
			}
			outcome, err := s.wallet.SignAndSendTransaction(s.context(cmd), s.settings.Network, wallet.Transaction{
				ReceiverID: receiverID,
				Actions:    actions,
			})
			if err != nil {
				return err
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), model.TransactionOutcome{
				Index:      0,
				ReceiverID: receiverID,
				Outcome:    outcome,
			})
		},
	}
	cmd.Flags().StringVar(&receiverID, "receiver", "", "Receiver account ID")
	cmd.Flags().StringVar(&actionsArg, "actions", "", "Actions JSON array, inline or @file")
	_ = cmd.MarkFlagRequired("receiver")
	_ = cmd.MarkFlagRequired("actions")
	return cmd
}

func (s *runtimeState) newSendManyCommand() *cobra.Command {
	var txArg string
	cmd := &cobra.Command{
		Use:   "send-many",
		Short: "Sign and send several transactions, one after another",
		RunE: func(cmd *cobra.Command, _ []string) error {
			txs, err := parseTransactions(txArg)
			if err != nil {
				return err
			}
			outcomes, err := s.wallet.SignAndSendTransactions(s.context(cmd), s.settings.Network, txs)
			if err != nil {
				return err
			}
			results := make([]model.TransactionOutcome, 0, len(outcomes))
			for i, outcome := range outcomes {
				results = append(results, model.TransactionOutcome{Index: i, ReceiverID: txs[i].ReceiverID, Outcome: outcome})
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), results)
		},
	}
	cmd.Flags().StringVar(&txArg, "transactions", "", `JSON array of {"receiverId","actions"}, inline or @file`)
	_ = cmd.MarkFlagRequired("transactions")
	return cmd
}

func (s *runtimeState) newSignMessageCommand() *cobra.Command {
	var message, recipient, nonceArg string
	cmd := &cobra.Command{
		Use:   "sign-message",
		Short: "Sign a NEP-413 message with the connected account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			nonce, err := parseNonce(nonceArg)
			if err != nil {
				return err
			}
			signed, err := s.wallet.SignMessage(s.context(cmd), s.settings.Network, wallet.MessageParams{
				Message:   message,
				Recipient: recipient,
				Nonce:     nonce,
			})
			if err != nil {
				return err
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), signedMessageOutput{
				SignedMessage: signed,
				Nonce:         base64.StdEncoding.EncodeToString(nonce),
			})
		},
	}
	cmd.Flags().StringVar(&message, "message", "", "Message to sign")
	cmd.Flags().StringVar(&recipient, "recipient", "", "Recipient the message is bound to")
	cmd.Flags().StringVar(&nonceArg, "nonce", "", "Base64 32-byte nonce (random when omitted)")
	_ = cmd.MarkFlagRequired("message")
	_ = cmd.MarkFlagRequired("recipient")
	return cmd
}

func (s *runtimeState) newSignDelegateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sign-delegate",
		Short: "Sign delegate actions (not supported)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.wallet.SignDelegateActions(s.context(cmd))
		},
	}
}
