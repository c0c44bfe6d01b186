package action

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ggonzalez94/nearcli-wallet/internal/amount"
	clierr "github.com/ggonzalez94/nearcli-wallet/internal/errors"
)

// envelope is the connector wire shape: {"type": "...", "params": {...}}.
type envelope struct {
	Type   string          `json:"type"`
	Params json.RawMessage `json:"params"`
}

type functionCallParams struct {
	MethodName string          `json:"methodName"`
	Args       json.RawMessage `json:"args"`
	Gas        string          `json:"gas"`
	Deposit    string          `json:"deposit"`
}

type addKeyParams struct {
	PublicKey string `json:"publicKey"`
	AccessKey struct {
		Nonce      *uint64         `json:"nonce"`
		Permission json.RawMessage `json:"permission"`
	} `json:"accessKey"`
}

type functionCallPermissionParams struct {
	ReceiverID  string   `json:"receiverId"`
	Allowance   string   `json:"allowance"`
	MethodNames []string `json:"methodNames"`
}

type useGlobalContractParams struct {
	ContractIdentifier struct {
		AccountID string `json:"accountId"`
		CodeHash  string `json:"codeHash"`
	} `json:"contractIdentifier"`
}

type deployParams struct {
	Code       []byte `json:"code"`
	DeployMode string `json:"deployMode"`
}

// DecodeList decodes a JSON array of connector actions, preserving order.
func DecodeList(raw []byte) ([]Action, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, clierr.Wrap(clierr.CodeUsage, "decode actions", err)
	}
	out := make([]Action, 0, len(items))
	for i, item := range items {
		a, err := Decode(item)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		out = append(out, a)
	}
	return out, nil
}

// Decode turns one untrusted connector action into its typed variant.
func Decode(raw []byte) (Action, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, clierr.Wrap(clierr.CodeUsage, "decode action", err)
	}
	switch Kind(env.Type) {
	case KindCreateAccount:
		return CreateAccount{}, nil
	case KindTransfer:
		var p struct {
			Deposit string `json:"deposit"`
		}
		if err := decodeParams(env, &p); err != nil {
			return nil, err
		}
		if err := requireAmount("deposit", p.Deposit); err != nil {
			return nil, err
		}
		return Transfer{Deposit: p.Deposit}, nil
	case KindFunctionCall:
		var p functionCallParams
		if err := decodeParams(env, &p); err != nil {
			return nil, err
		}
		if err := requireField("methodName", p.MethodName); err != nil {
			return nil, err
		}
		if err := requireAmount("gas", p.Gas); err != nil {
			return nil, err
		}
		if err := requireAmount("deposit", p.Deposit); err != nil {
			return nil, err
		}
		fc := FunctionCall{MethodName: p.MethodName, Gas: p.Gas, Deposit: p.Deposit}
		if len(p.Args) > 0 && string(p.Args) != "null" {
			fc.Args = p.Args
		}
		return fc, nil
	case KindStake:
		var p struct {
			Stake     string `json:"stake"`
			PublicKey string `json:"publicKey"`
		}
		if err := decodeParams(env, &p); err != nil {
			return nil, err
		}
		if err := requireAmount("stake", p.Stake); err != nil {
			return nil, err
		}
		if err := requireField("publicKey", p.PublicKey); err != nil {
			return nil, err
		}
		return Stake{Stake: p.Stake, PublicKey: p.PublicKey}, nil
	case KindAddKey:
		var p addKeyParams
		if err := decodeParams(env, &p); err != nil {
			return nil, err
		}
		if err := requireField("publicKey", p.PublicKey); err != nil {
			return nil, err
		}
		perm, err := decodePermission(p.AccessKey.Permission)
		if err != nil {
			return nil, err
		}
		return AddKey{PublicKey: p.PublicKey, AccessKey: AccessKey{Nonce: p.AccessKey.Nonce, Permission: perm}}, nil
	case KindDeleteKey:
		var p struct {
			PublicKey string `json:"publicKey"`
		}
		if err := decodeParams(env, &p); err != nil {
			return nil, err
		}
		if err := requireField("publicKey", p.PublicKey); err != nil {
			return nil, err
		}
		return DeleteKey{PublicKey: p.PublicKey}, nil
	case KindDeleteAccount:
		var p struct {
			BeneficiaryID string `json:"beneficiaryId"`
		}
		if err := decodeParams(env, &p); err != nil {
			return nil, err
		}
		if err := requireField("beneficiaryId", p.BeneficiaryID); err != nil {
			return nil, err
		}
		return DeleteAccount{BeneficiaryID: p.BeneficiaryID}, nil
	case KindUseGlobalContract:
		var p useGlobalContractParams
		if err := decodeParams(env, &p); err != nil {
			return nil, err
		}
		id := p.ContractIdentifier
		if id.AccountID == "" && id.CodeHash == "" {
			return nil, clierr.New(clierr.CodeUsage, "contractIdentifier requires accountId or codeHash")
		}
		return UseGlobalContract{AccountID: id.AccountID, CodeHash: id.CodeHash}, nil
	case KindDeployContract:
		var p deployParams
		if err := decodeParams(env, &p); err != nil {
			return nil, err
		}
		return DeployContract{Code: p.Code}, nil
	case KindDeployGlobalContract:
		var p deployParams
		if err := decodeParams(env, &p); err != nil {
			return nil, err
		}
		return DeployGlobalContract{Code: p.Code, DeployMode: p.DeployMode}, nil
	default:
		return nil, clierr.New(clierr.CodeUnsupported, fmt.Sprintf("unknown action type %q", env.Type))
	}
}

func decodePermission(raw json.RawMessage) (Permission, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, clierr.New(clierr.CodeUsage, "accessKey.permission is required")
	}
	var marker string
	if err := json.Unmarshal(raw, &marker); err == nil {
		if marker == "FullAccess" {
			return FullAccess{}, nil
		}
		return nil, clierr.New(clierr.CodeUsage, fmt.Sprintf("unknown permission %q", marker))
	}
	var p functionCallPermissionParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, clierr.Wrap(clierr.CodeUsage, "decode permission", err)
	}
	if err := requireField("receiverId", p.ReceiverID); err != nil {
		return nil, err
	}
	if p.Allowance != "" && !amount.Valid(p.Allowance) {
		return nil, clierr.New(clierr.CodeUsage, "allowance must be an integer yoctoNEAR string")
	}
	return FunctionCallPermission{ReceiverID: p.ReceiverID, Allowance: p.Allowance, MethodNames: p.MethodNames}, nil
}

func decodeParams(env envelope, out any) error {
	if len(env.Params) == 0 {
		return clierr.New(clierr.CodeUsage, fmt.Sprintf("%s action is missing params", env.Type))
	}
	if err := json.Unmarshal(env.Params, out); err != nil {
		return clierr.Wrap(clierr.CodeUsage, fmt.Sprintf("decode %s params", env.Type), err)
	}
	return nil
}

func requireField(name, v string) error {
	if strings.TrimSpace(v) == "" {
		return clierr.New(clierr.CodeUsage, fmt.Sprintf("%s is required", name))
	}
	return nil
}

func requireAmount(name, v string) error {
	if !amount.Valid(v) {
		return clierr.New(clierr.CodeUsage, fmt.Sprintf("%s must be an integer string", name))
	}
	return nil
}
