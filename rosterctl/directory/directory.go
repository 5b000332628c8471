package directory

// Entry is an existing directory object matched by handle.
type Entry struct {
	DN     string
	Handle string
}

// Account carries the attributes for a directory account creation.
type Account struct {
	FullName             string
	GivenName            string
	Surname              string
	Handle               string // login name
	PrincipalName        string // handle + configured domain suffix
	OU                   string // organizational placement the account is created under
	Enabled              bool
	ForceCredentialReset bool
}

// Directory is the external identity system accounts are provisioned
// into. Implementations are synchronous; callers needing timeouts layer
// them over the client.
type Directory interface {
	// FindByHandle returns the entry whose login name matches handle, or
	// nil when the directory has no such entry.
	FindByHandle(handle string) (*Entry, error)

	// CreateAccount creates a new directory account under acct.OU.
	CreateAccount(acct Account) error

	// AddToGroup adds the account with the given handle to the group.
	AddToGroup(group, handle string) error
}
