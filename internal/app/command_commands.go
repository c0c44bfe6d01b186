package app

import (
	"encoding/base64"
	"strings"

	"github.com/ggonzalez94/nearcli-wallet/internal/amount"
	"github.com/ggonzalez94/nearcli-wallet/internal/command"
	clierr "github.com/ggonzalez94/nearcli-wallet/internal/errors"
	"github.com/ggonzalez94/nearcli-wallet/internal/model"
	"github.com/spf13/cobra"
)

// newCommandCommand prints generated near-cli-rs commands without touching
// the session store or the network.
func (s *runtimeState) newCommandCommand() *cobra.Command {
	root := &cobra.Command{Use: "command", Short: "Print near-cli-rs commands without running a flow"}
	root.AddCommand(s.newAddKeyCommandCommand())
	root.AddCommand(s.newTransactionCommandCommand())
	root.AddCommand(s.newSignMessageCommandCommand())
	return root
}

func (s *runtimeState) emitCommand(cmd *cobra.Command, text, nonce string) error {
	return s.emitSuccess(trimRootPath(cmd.CommandPath()), model.GeneratedCommand{
		Network: s.settings.Network.String(),
		Command: text,
		Nonce:   nonce,
	})
}

func (s *runtimeState) newAddKeyCommandCommand() *cobra.Command {
	var req command.AddKeyRequest
	var methods, allowanceYocto string
	cmd := &cobra.Command{
		Use:   "add-key",
		Short: "Print the command granting a key on an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(allowanceYocto) != "" {
				if req.ContractID == "" {
					return clierr.New(clierr.CodeUsage, "--allowance requires --contract")
				}
				if !amount.Valid(allowanceYocto) {
					return clierr.New(clierr.CodeUsage, "--allowance must be an integer yoctoNEAR amount")
				}
				req.Allowance = amount.ToNEAR(allowanceYocto)
			}
			req.MethodNames = splitCSV(methods)
			req.Network = s.settings.Network
			return s.emitCommand(cmd, command.AddKey(req), "")
		},
	}
	cmd.Flags().StringVar(&req.AccountID, "account", "", "Account receiving the key")
	cmd.Flags().StringVar(&req.PublicKey, "public-key", "", "Public key, ed25519:<base58>")
	cmd.Flags().StringVar(&req.ContractID, "contract", "", "Scope the key to this contract (full access when omitted)")
	cmd.Flags().StringVar(&methods, "methods", "", "Allowed method names (comma-separated)")
	cmd.Flags().StringVar(&allowanceYocto, "allowance", "", "Allowance in yoctoNEAR (default 0.25 NEAR)")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("public-key")
	return cmd
}

func (s *runtimeState) newTransactionCommandCommand() *cobra.Command {
	var signerID, receiverID, actionsArg string
	cmd := &cobra.Command{
		Use:   "transaction",
		Short: "Print the command signing and sending one transaction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			actions, err := parseActions(actionsArg)
			if err != nil {
				return err
			}
			text, err := command.Transaction(command.TransactionRequest{
				SignerID:   signerID,
				ReceiverID: receiverID,
				Actions:    actions,
				Network:    s.settings.Network,
			})
			if err != nil {
				return err
			}
			return s.emitCommand(cmd, text, "")
		},
	}
	cmd.Flags().StringVar(&signerID, "signer", "", "Signer account ID")
	cmd.Flags().StringVar(&receiverID, "receiver", "", "Receiver account ID")
	cmd.Flags().StringVar(&actionsArg, "actions", "", "Actions JSON array, inline or @file")
	_ = cmd.MarkFlagRequired("signer")
	_ = cmd.MarkFlagRequired("receiver")
	_ = cmd.MarkFlagRequired("actions")
	return cmd
}

func (s *runtimeState) newSignMessageCommandCommand() *cobra.Command {
	var req command.SignMessageRequest
	var nonceArg string
	cmd := &cobra.Command{
		Use:   "sign-message",
		Short: "Print the NEP-413 message signing command",
		RunE: func(cmd *cobra.Command, _ []string) error {
			nonce, err := parseNonce(nonceArg)
			if err != nil {
				return err
			}
			req.Nonce = base64.StdEncoding.EncodeToString(nonce)
			req.Network = s.settings.Network
			return s.emitCommand(cmd, command.SignMessage(req), req.Nonce)
		},
	}
	cmd.Flags().StringVar(&req.Message, "message", "", "Message to sign")
	cmd.Flags().StringVar(&req.Recipient, "recipient", "", "Recipient the message is bound to")
	cmd.Flags().StringVar(&req.SignerID, "signer", "", "Signer account ID")
	cmd.Flags().StringVar(&nonceArg, "nonce", "", "Base64 32-byte nonce (random when omitted)")
	_ = cmd.MarkFlagRequired("message")
	_ = cmd.MarkFlagRequired("recipient")
	_ = cmd.MarkFlagRequired("signer")
	return cmd
}
