package notion

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// ResultPage is one completed assessment as stored in the results database.
type ResultPage struct {
	SessionID   string
	BestFit     string
	NextBest    string
	Answered    int
	CompletedAt time.Time
}

// Publisher writes assessment results to a Notion database. A session that
// completes again after a reset updates its existing page.
type Publisher struct {
	client Client
	dbID   string

	mu    sync.Mutex
	pages map[string]string
}

// NewPublisher returns a Publisher writing to the database dbID.
func NewPublisher(client Client, dbID string) *Publisher {
	return &Publisher{client: client, dbID: dbID, pages: make(map[string]string)}
}

// Publish creates or updates the page for r.SessionID and returns its ID.
func (p *Publisher) Publish(ctx context.Context, r ResultPage) (string, error) {
	p.mu.Lock()
	pageID, seen := p.pages[r.SessionID]
	p.mu.Unlock()

	props := resultProperties(r)
	if seen {
		delete(props, "Session")
		if _, err := p.client.UpdatePage(ctx, pageID, &notionapi.PageUpdateRequest{Properties: props}); err != nil {
			return "", eris.Wrap(err, fmt.Sprintf("notion: update result for session %s", r.SessionID))
		}
		return pageID, nil
	}

	page, err := p.client.CreatePage(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(p.dbID),
		},
		Properties: props,
	})
	if err != nil {
		return "", eris.Wrap(err, fmt.Sprintf("notion: create result for session %s", r.SessionID))
	}

	p.mu.Lock()
	p.pages[r.SessionID] = string(page.ID)
	p.mu.Unlock()
	return string(page.ID), nil
}

func resultProperties(r ResultPage) notionapi.Properties {
	completed := notionapi.Date(r.CompletedAt)
	return notionapi.Properties{
		"Session": notionapi.TitleProperty{
			Type: notionapi.PropertyTypeTitle,
			Title: []notionapi.RichText{
				{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: r.SessionID}},
			},
		},
		"Best Fit": richText(r.BestFit),
		"Next Best": richText(r.NextBest),
		"Answered": notionapi.NumberProperty{
			Number: float64(r.Answered),
		},
		"Completed": notionapi.DateProperty{
			Date: &notionapi.DateObject{
				Start: &completed,
			},
		},
	}
}

func richText(s string) notionapi.RichTextProperty {
	return notionapi.RichTextProperty{
		Type: notionapi.PropertyTypeRichText,
		RichText: []notionapi.RichText{
			{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: s}},
		},
	}
}
