package action

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ggonzalez94/nearcli-wallet/internal/amount"
	clierr "github.com/ggonzalez94/nearcli-wallet/internal/errors"
	"github.com/ggonzalez94/nearcli-wallet/internal/shellquote"
)

// Compile returns the construct-transaction clause for a.
func Compile(a Action) (string, error) {
	switch v := a.(type) {
	case CreateAccount:
		return "add-action create-account", nil
	case Transfer:
		return "add-action transfer " + NEARArg(v.Deposit), nil
	case FunctionCall:
		args, err := EncodeArgs(v.Args)
		if err != nil {
			return "", err
		}
		return strings.Join([]string{
			"add-action function-call " + shellquote.Quote(v.MethodName),
			"json-args " + shellquote.Quote(args),
			"prepaid-gas " + TgasArg(v.Gas),
			"attached-deposit " + NEARArg(v.Deposit),
		}, " "), nil
	case AddKey:
		parts := []string{"add-action add-key"}
		parts = append(parts, PermissionArgs(v.AccessKey.Permission)...)
		parts = append(parts, "use-manually-provided-public-key "+v.PublicKey)
		return strings.Join(parts, " "), nil
	case DeleteKey:
		return "add-action delete-key " + v.PublicKey, nil
	case DeleteAccount:
		return "add-action delete-account beneficiary " + shellquote.Quote(v.BeneficiaryID), nil
	case Stake:
		return "add-action stake " + NEARArg(v.Stake) + " " + v.PublicKey, nil
	case UseGlobalContract:
		if v.AccountID != "" {
			return "add-action use-global-contract use-global-account-id " + shellquote.Quote(v.AccountID), nil
		}
		return "add-action use-global-contract use-global-hash " + shellquote.Quote(v.CodeHash), nil
	case DeployContract, DeployGlobalContract:
		return "", unsupportedBinary(a.Kind())
	default:
		return "", clierr.New(clierr.CodeUnsupported, "unknown action type")
	}
}

// PermissionArgs renders the grant sub-command of an add-key invocation. A
// nil permission is treated as full access.
func PermissionArgs(p Permission) []string {
	fc, ok := p.(FunctionCallPermission)
	if !ok {
		return []string{"grant-full-access"}
	}
	parts := []string{"grant-function-call-access"}
	if fc.Allowance != "" {
		parts = append(parts, "--allowance "+NEARArg(fc.Allowance))
	}
	parts = append(parts, "--contract-account-id "+shellquote.Quote(fc.ReceiverID))
	if len(fc.MethodNames) > 0 {
		parts = append(parts, "--function-names "+shellquote.Quote(strings.Join(fc.MethodNames, ", ")))
	}
	return parts
}

// NEARArg renders a yoctoNEAR amount as the quoted '<n> NEAR' argument.
func NEARArg(yocto string) string {
	return "'" + amount.ToNEAR(yocto) + " NEAR'"
}

// TgasArg renders a gas amount as the quoted '<n> Tgas' argument.
func TgasArg(gas string) string {
	return "'" + amount.ToTgas(gas) + " Tgas'"
}

// EncodeArgs serializes function-call arguments as compact JSON. HTML
// characters are left as-is so the contract receives exactly what was given.
func EncodeArgs(args any) (string, error) {
	if args == nil {
		return "{}", nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(args); err != nil {
		return "", clierr.Wrap(clierr.CodeUsage, "encode function call args", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func unsupportedBinary(kind Kind) error {
	return clierr.New(clierr.CodeUnsupported, fmt.Sprintf("%s is not supported by NEAR CLI wallet: binary data cannot be passed via command line", kind))
}
