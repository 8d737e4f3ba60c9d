package report

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/atelier-erp/atelier-erp/internal/clients"
	"github.com/atelier-erp/atelier-erp/internal/documents"
)

// DocumentGetter is the slice of the documents service the renderer needs.
type DocumentGetter interface {
	Get(ctx context.Context, id int64) (*documents.Document, error)
}

// ClientGetter resolves the client printed on the document header.
type ClientGetter interface {
	Get(ctx context.Context, id int64) (*clients.Client, error)
}

// Renderer turns stored documents into rendered PDF URLs. Concurrent
// requests for the same document revision share one render call.
type Renderer struct {
	client    *Client
	documents DocumentGetter
	clients   ClientGetter
	group     singleflight.Group
}

func NewRenderer(client *Client, docs DocumentGetter, clientDir ClientGetter) *Renderer {
	return &Renderer{client: client, documents: docs, clients: clientDir}
}

// Render fetches the document, builds its HTML and submits it for
// rendering. The returned URL points at the rendered PDF.
func (r *Renderer) Render(ctx context.Context, documentID int64) (string, error) {
	doc, err := r.documents.Get(ctx, documentID)
	if err != nil {
		return "", err
	}
	cl, err := r.clients.Get(ctx, doc.ClientID)
	if err != nil {
		return "", fmt.Errorf("resolve client %d: %w", doc.ClientID, err)
	}

	// Key on the revision so a stale in-flight render is never reused
	// after an edit.
	key := fmt.Sprintf("%d@%d", doc.ID, doc.UpdatedAt.UnixNano())
	resultChan := r.group.DoChan(key, func() (interface{}, error) {
		html, err := BuildDocumentHTML(doc, cl)
		if err != nil {
			return nil, err
		}
		return r.client.RenderHTML(ctx, html, FileName(doc))
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}
