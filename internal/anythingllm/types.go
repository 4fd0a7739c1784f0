package anythingllm

import "time"

// Workspace is a named document collection on the server. Documents are
// embedded into workspaces by slug.
type Workspace struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Document describes a stored document inside a server folder.
type Document struct {
	// Name is the server-assigned file name, e.g.
	// "Projects::x.md-1f2e3d4c.json". Folder-qualified Name is the
	// handle for move and embedding operations.
	Name string `json:"name"`

	// Title is the display name the document was uploaded under, which
	// for this tool is the mangled vault path.
	Title string `json:"title"`

	// Published is the server-side publication timestamp. Zero when the
	// server reported a form we could not parse.
	Published time.Time `json:"-"`
}

// Move describes a single source→destination document relocation for the
// move-files endpoint. Both fields are folder-qualified names.
type Move struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// authResponse is the body of GET /api/v1/auth.
type authResponse struct {
	Authenticated bool `json:"authenticated"`
}

// workspacesResponse is the body of GET /api/v1/workspaces.
type workspacesResponse struct {
	Workspaces []Workspace `json:"workspaces"`
}

// opResponse is the generic mutation response shape: a success flag and
// an optional human-readable message.
type opResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// uploadResponse is the body of POST /api/v1/document/upload/{folder}.
type uploadResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Documents []struct {
		Name      string `json:"name"`
		Title     string `json:"title"`
		Published string `json:"published"`
	} `json:"documents"`
}

// updateEmbeddingsRequest is the body of
// POST /api/v1/workspace/{slug}/update-embeddings.
type updateEmbeddingsRequest struct {
	Adds    []string `json:"adds,omitempty"`
	Deletes []string `json:"deletes,omitempty"`
}
