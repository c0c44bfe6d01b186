// Package action models the NEAR transaction actions a connector can ask the
// wallet to sign, and compiles them into near-cli-rs clauses.
package action

type Kind string

const (
	KindCreateAccount        Kind = "CreateAccount"
	KindDeployContract       Kind = "DeployContract"
	KindFunctionCall         Kind = "FunctionCall"
	KindTransfer             Kind = "Transfer"
	KindStake                Kind = "Stake"
	KindAddKey               Kind = "AddKey"
	KindDeleteKey            Kind = "DeleteKey"
	KindDeleteAccount        Kind = "DeleteAccount"
	KindUseGlobalContract    Kind = "UseGlobalContract"
	KindDeployGlobalContract Kind = "DeployGlobalContract"
)

// Action is one of the ten variant structs in this package.
type Action interface {
	Kind() Kind
	isAction()
}

type CreateAccount struct{}

type DeployContract struct {
	Code []byte
}

// FunctionCall calls MethodName with Args serialized as JSON. Gas is in gas
// units and Deposit in yoctoNEAR, both as integer strings.
type FunctionCall struct {
	MethodName string
	Args       any
	Gas        string
	Deposit    string
}

type Transfer struct {
	Deposit string
}

type Stake struct {
	Stake     string
	PublicKey string
}

type AddKey struct {
	PublicKey string
	AccessKey AccessKey
}

type AccessKey struct {
	Nonce      *uint64
	Permission Permission
}

// Permission is either FullAccess or FunctionCallPermission.
type Permission interface {
	isPermission()
}

type FullAccess struct{}

// FunctionCallPermission limits a key to ReceiverID. Allowance (yoctoNEAR)
// and MethodNames are optional; empty means unrestricted.
type FunctionCallPermission struct {
	ReceiverID  string
	Allowance   string
	MethodNames []string
}

type DeleteKey struct {
	PublicKey string
}

type DeleteAccount struct {
	BeneficiaryID string
}

// UseGlobalContract references a global contract by AccountID when set,
// otherwise by CodeHash.
type UseGlobalContract struct {
	AccountID string
	CodeHash  string
}

type DeployGlobalContract struct {
	Code       []byte
	DeployMode string
}

func (CreateAccount) Kind() Kind        { return KindCreateAccount }
func (DeployContract) Kind() Kind       { return KindDeployContract }
func (FunctionCall) Kind() Kind         { return KindFunctionCall }
func (Transfer) Kind() Kind             { return KindTransfer }
func (Stake) Kind() Kind                { return KindStake }
func (AddKey) Kind() Kind               { return KindAddKey }
func (DeleteKey) Kind() Kind            { return KindDeleteKey }
func (DeleteAccount) Kind() Kind        { return KindDeleteAccount }
func (UseGlobalContract) Kind() Kind    { return KindUseGlobalContract }
func (DeployGlobalContract) Kind() Kind { return KindDeployGlobalContract }

func (CreateAccount) isAction()        {}
func (DeployContract) isAction()       {}
func (FunctionCall) isAction()         {}
func (Transfer) isAction()             {}
func (Stake) isAction()                {}
func (AddKey) isAction()               {}
func (DeleteKey) isAction()            {}
func (DeleteAccount) isAction()        {}
func (UseGlobalContract) isAction()    {}
func (DeployGlobalContract) isAction() {}

func (FullAccess) isPermission()             {}
func (FunctionCallPermission) isPermission() {}
