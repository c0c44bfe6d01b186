// Package prompt is the interactive surface flows render into: one screen at
// a time, one submitted value per screen.
package prompt

import "context"

type Kind string

const (
	KindAccountID   Kind = "account_id"
	KindAddKey      Kind = "add_key"
	KindTransaction Kind = "transaction"
	KindSignMessage Kind = "sign_message"
)

// Screen describes what the user sees while a flow waits for input. Command
// is empty for screens that only collect a value.
type Screen struct {
	Kind        Kind
	Step        string
	Title       string
	Subtitle    string
	Command     string
	Placeholder string
	ButtonText  string
	// Multiline screens accept pasted output spanning several lines.
	Multiline bool
}

// Surface is owned by the host; flows bracket their work with Show and Hide.
type Surface interface {
	Show()
	Hide()
	Render(screen Screen)
	// Input blocks until the user submits a value for the current screen.
	Input(ctx context.Context) (string, error)
	// Error reports an inline, recoverable problem on the current screen.
	Error(message string)
	// Status reports progress such as an in-flight verification.
	Status(message string)
}

func AccountIDScreen(subtitle, buttonText, step string) Screen {
	return Screen{
		Kind:        KindAccountID,
		Step:        step,
		Title:       "Connect with NEAR CLI",
		Subtitle:    subtitle,
		Placeholder: "e.g. yourname.near",
		ButtonText:  buttonText,
	}
}

func AddKeyScreen(command, step string) Screen {
	return Screen{
		Kind:        KindAddKey,
		Step:        step,
		Title:       "Add access key",
		Subtitle:    "Run this command in your terminal, then paste the transaction hash or explorer URL below",
		Command:     command,
		Placeholder: "Paste transaction hash or explorer URL",
		ButtonText:  "Verify",
	}
}

func TransactionScreen(command string) Screen {
	return Screen{
		Kind:        KindTransaction,
		Title:       "Sign transaction",
		Subtitle:    "Run this command in your terminal, then paste the transaction hash or explorer URL below",
		Command:     command,
		Placeholder: "Paste transaction hash or explorer URL",
		ButtonText:  "Verify",
	}
}

func SignMessageScreen(command, step string) Screen {
	return Screen{
		Kind:        KindSignMessage,
		Step:        step,
		Title:       "Sign message",
		Subtitle:    "Run this command in your terminal, then paste the JSON output below",
		Command:     command,
		Placeholder: `Paste the JSON output here, e.g. {"accountId":"...","publicKey":"...","signature":"..."}`,
		ButtonText:  "Submit",
		Multiline:   true,
	}
}
