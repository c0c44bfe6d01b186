package wallet

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/ggonzalez94/nearcli-wallet/internal/keys"
)

var (
	explorerHashPattern = regexp.MustCompile(`(?:txns?|transactions)/([A-Za-z0-9]{43,44})`)
	bareHashPattern     = regexp.MustCompile(`(?:Transaction ID:\s*)?([A-Za-z0-9]{43,44})`)
)

// ParseHashInput extracts a transaction hash from an explorer URL or the
// CLI's "Transaction ID:" line. Input matching neither is returned as is.
func ParseHashInput(raw string) string {
	if m := explorerHashPattern.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	if m := bareHashPattern.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return raw
}

type signOutput struct {
	AccountID string `json:"accountId"`
	PublicKey string `json:"publicKey"`
	Signature string `json:"signature"`
}

// parseSignOutput reads the first JSON object carrying a "signature" field
// from pasted `sign-nep413` output.
func parseSignOutput(raw string) (signOutput, error) {
	obj, err := firstSignatureObject(raw)
	if err != nil {
		return signOutput{}, err
	}
	var out signOutput
	if err := json.Unmarshal(obj, &out); err != nil {
		return signOutput{}, err
	}
	if out.Signature == "" || out.PublicKey == "" {
		return signOutput{}, errors.New("missing signature or publicKey in output")
	}
	sig, err := keys.DecodeSignature(out.Signature)
	if err != nil {
		return signOutput{}, err
	}
	out.Signature = base64.StdEncoding.EncodeToString(sig)
	return out, nil
}

func firstSignatureObject(raw string) (json.RawMessage, error) {
	for i := strings.IndexByte(raw, '{'); i >= 0; {
		var candidate map[string]json.RawMessage
		dec := json.NewDecoder(strings.NewReader(raw[i:]))
		if err := dec.Decode(&candidate); err == nil {
			if _, ok := candidate["signature"]; ok {
				end := i + int(dec.InputOffset())
				return json.RawMessage(raw[i:end]), nil
			}
		}
		next := strings.IndexByte(raw[i+1:], '{')
		if next < 0 {
			break
		}
		i += next + 1
	}
	return nil, errors.New("no valid JSON found")
}
