package anythingllm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// publishedLayouts are the timestamp forms the server has been observed
// reporting in document listings. The locale form comes from the server
// serializing Date objects with toLocaleString.
var publishedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"1/2/2006, 3:04:05 PM",
	"2/1/2006, 15:04:05",
}

// parsePublished converts a server-reported published string to a time.
// Unrecognized forms yield the zero time; the reconciler then treats any
// local file as newer, which re-uploads rather than silently skipping.
func parsePublished(s string) time.Time {
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	return time.Time{}
}

// ListFolder returns the documents stored in the named server folder.
// A folder missing from the document tree returns ErrFolderNotFound;
// callers treat that as an empty namespace, not a failure.
//
// The /documents response is a recursive tree of folder and file nodes
// whose exact shape varies across server versions, so it is walked with
// gjson rather than decoded into fixed structs.
func (c *Client) ListFolder(ctx context.Context, name string) ([]Document, error) {
	body, err := c.do(ctx, http.MethodGet, "/documents", "", nil)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	root := gjson.GetBytes(body, "localFiles.items")
	if !root.Exists() {
		return nil, &APIError{Endpoint: "/documents", Message: "response has no localFiles tree"}
	}

	var folder *gjson.Result

	root.ForEach(func(_, node gjson.Result) bool {
		if node.Get("type").Str == "folder" && node.Get("name").Str == name {
			folder = &node
			return false
		}

		return true
	})

	if folder == nil {
		return nil, fmt.Errorf("folder %s: %w", name, ErrFolderNotFound)
	}

	var docs []Document

	folder.Get("items").ForEach(func(_, node gjson.Result) bool {
		if node.Get("type").Str == "folder" {
			return true // server folders do not nest for this tool
		}

		doc := Document{
			Name:      node.Get("name").Str,
			Title:     node.Get("title").Str,
			Published: parsePublished(node.Get("published").Str),
		}
		if doc.Name != "" {
			docs = append(docs, doc)
		}

		return true
	})

	return docs, nil
}

// UploadDocument uploads file content into the named server folder and
// returns the stored document. The server assigns the final document
// name; Title round-trips the given fileName.
func (c *Client) UploadDocument(ctx context.Context, folder, fileName string, content []byte) (Document, error) {
	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return Document{}, fmt.Errorf("building upload form: %w", err)
	}

	if _, err := part.Write(content); err != nil {
		return Document{}, fmt.Errorf("writing upload content: %w", err)
	}

	if err := mw.Close(); err != nil {
		return Document{}, fmt.Errorf("finalizing upload form: %w", err)
	}

	endpoint := "/document/upload/" + folder

	body, err := c.do(ctx, http.MethodPost, endpoint, mw.FormDataContentType(), &buf)
	if err != nil {
		return Document{}, fmt.Errorf("uploading %s: %w", fileName, err)
	}

	var resp uploadResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Document{}, fmt.Errorf("decoding upload response for %s: %w", fileName, err)
	}

	if !resp.Success {
		return Document{}, &APIError{Endpoint: endpoint, Message: resp.Error}
	}

	if len(resp.Documents) == 0 {
		return Document{}, &APIError{Endpoint: endpoint, Message: "upload succeeded but returned no documents"}
	}

	d := resp.Documents[0]

	return Document{
		Name:      d.Name,
		Title:     d.Title,
		Published: parsePublished(d.Published),
	}, nil
}
