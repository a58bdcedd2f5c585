package domain

// Account is the user record owned by Directus, looked up by email and
// auto-provisioned on first sight of a member with no match.
type Account struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email"`
	Role      any    `json:"role"` // role id or expanded role object
	Status    string `json:"status"`
}

// AccountCreation is the payload for provisioning a new Directus account.
type AccountCreation struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	Status    string `json:"status"`
}

// Tokens is a session token pair minted by Directus. Expires is the access
// token lifetime in milliseconds, as Directus reports it.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Expires      int64  `json:"expires"`
}

// Thread is an opaque record in the threads collection; its full schema is
// owned by Directus.
type Thread struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
	Image string `json:"image,omitempty"`
}

// ThreadCreation is the payload for creating a thread.
type ThreadCreation struct {
	Title string `json:"title"`
	Type  string `json:"type"`
	Image string `json:"image,omitempty"`
}

// File is an uploaded Directus file; ID is usable as an image reference.
type File struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Type  string `json:"type,omitempty"`
}
