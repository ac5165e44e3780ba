package domain

// NewClient is the create-with-accounts form: client-level fields plus the
// batch of accounts to open for the new client.
type NewClient struct {
	Name       string       `json:"name"`
	Address    string       `json:"address"`
	PostalCode string       `json:"postalCode"`
	Phone      string       `json:"phone"`
	Email      string       `json:"email"`
	DOB        string       `json:"dob"`
	Accounts   []NewAccount `json:"accounts"`
}

// NewAccount is one entry of an account batch. ClientID is only read by the
// single-account create; the workflow stamps it itself.
type NewAccount struct {
	ClientID string `json:"cid,omitempty"`
	Type     string `json:"type"`
	Status   string `json:"status"`
}

// Client returns the client-level record. Empty fields stay empty and are
// stored absent.
func (n NewClient) Client() Client {
	return Client{
		Name:       n.Name,
		Address:    n.Address,
		PostalCode: n.PostalCode,
		Phone:      n.Phone,
		Email:      n.Email,
		DOB:        n.DOB,
	}
}
