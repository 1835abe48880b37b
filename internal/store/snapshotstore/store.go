// Package snapshotstore implements the record store on a remote JSON
// snapshot document, one document per catalog scope.
//
// Every mutation is read-modify-write: fetch the document, apply the shared
// conflict rules in memory, then write it back with the document revision in
// If-Match so the remote rejects writes against a document that changed
// since the read.
package snapshotstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"stockroom/internal/catalog"
	"stockroom/internal/logging"
	"stockroom/internal/slugs"
	"stockroom/internal/store"
)

// Options configures the snapshot client.
type Options struct {
	Endpoint       string
	WriteToken     string
	Scope          string
	RequestTimeout time.Duration
}

// Store is the remote snapshot-backed record store.
type Store struct {
	endpoint string
	token    string
	scope    string
	client   *http.Client
	logger   *slog.Logger
}

var _ store.Store = (*Store)(nil)

type document struct {
	Products      []catalog.Record  `json:"products"`
	RevisionsByID map[string]string `json:"revisionsById"`
	DocRevision   string            `json:"docRevision"`
}

// New creates a snapshot store client. The endpoint may be empty; every
// operation then fails with ErrUnconfigured until an operator sets it.
func New(opts Options, logger *slog.Logger) *Store {
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	scope := strings.TrimSpace(opts.Scope)
	if scope == "" {
		scope = "main"
	}
	return &Store{
		endpoint: strings.TrimRight(strings.TrimSpace(opts.Endpoint), "/"),
		token:    strings.TrimSpace(opts.WriteToken),
		scope:    scope,
		client:   &http.Client{Timeout: timeout},
		logger:   logging.NewComponentLogger(logger, "snapshotstore"),
	}
}

// List returns every record in the scope document with its revision token.
func (s *Store) List(ctx context.Context) ([]catalog.Record, map[string]string, error) {
	doc, err := s.fetch(ctx)
	if err != nil {
		return nil, nil, err
	}
	return doc.Products, doc.RevisionsByID, nil
}

// Get returns the record whose normalized slug matches, or nil when absent.
func (s *Store) Get(ctx context.Context, slug string) (*catalog.Record, string, error) {
	doc, err := s.fetch(ctx)
	if err != nil {
		return nil, "", err
	}
	wanted := slugs.Slugify(slug)
	for i := range doc.Products {
		if slugs.Slugify(doc.Products[i].Slug) != wanted {
			continue
		}
		rec := doc.Products[i]
		return &rec, doc.RevisionsByID[rec.ID], nil
	}
	return nil, "", nil
}

// Upsert applies the shared conflict rules against the fetched document and
// writes the changed document back under If-Match.
func (s *Store) Upsert(ctx context.Context, rec catalog.Record, expectedRevision string) (catalog.Record, string, error) {
	if err := s.requireWriteConfig(); err != nil {
		return catalog.Record{}, "", err
	}
	normalized, err := catalog.NewRecord(rec)
	if err != nil {
		return catalog.Record{}, "", err
	}

	doc, err := s.fetch(ctx)
	if err != nil {
		return catalog.Record{}, "", err
	}

	entries := make([]store.Entry, len(doc.Products))
	for i, product := range doc.Products {
		entries[i] = store.Entry{Index: i, ID: product.ID, Slug: slugs.Slugify(product.Slug)}
	}
	target, err := store.ResolveUpsert(entries, normalized.ID, normalized.Slug)
	if err != nil {
		return catalog.Record{}, "", err
	}

	current := ""
	if !target.IsNew {
		existing := doc.Products[target.Index]
		current = doc.RevisionsByID[existing.ID]
		if normalized.ID == "" {
			normalized.ID = existing.ID
		}
	}
	if err := store.CheckRevision(expectedRevision, current); err != nil {
		return catalog.Record{}, "", err
	}
	if normalized.ID == "" {
		normalized.ID = uuid.NewString()
	}

	if target.IsNew {
		doc.Products = append(doc.Products, normalized)
	} else {
		doc.Products[target.Index] = normalized
	}

	updated, err := s.put(ctx, doc)
	if err != nil {
		return catalog.Record{}, "", err
	}
	s.logger.Debug("snapshot record written",
		logging.String("scope", s.scope),
		logging.String("slug", normalized.Slug),
		logging.Bool("created", target.IsNew))
	return normalized, updated.RevisionsByID[normalized.ID], nil
}

// Delete removes the record with the given slug, deleting the whole scope
// document when it was the last record.
func (s *Store) Delete(ctx context.Context, slug string) (bool, error) {
	if err := s.requireWriteConfig(); err != nil {
		return false, err
	}
	doc, err := s.fetch(ctx)
	if err != nil {
		return false, err
	}

	wanted := slugs.Slugify(slug)
	kept := doc.Products[:0]
	for _, product := range doc.Products {
		if slugs.Slugify(product.Slug) == wanted {
			continue
		}
		kept = append(kept, product)
	}
	if len(kept) == len(doc.Products) {
		return false, nil
	}
	doc.Products = kept

	if len(doc.Products) == 0 {
		if err := s.deleteDocument(ctx, doc.DocRevision); err != nil {
			return false, err
		}
	} else if _, err := s.put(ctx, doc); err != nil {
		return false, err
	}
	s.logger.Debug("snapshot record deleted",
		logging.String("scope", s.scope),
		logging.String("slug", wanted))
	return true, nil
}

func (s *Store) requireReadConfig() error {
	if s.endpoint == "" {
		return fmt.Errorf("%w: endpoint not set", store.ErrUnconfigured)
	}
	return nil
}

func (s *Store) requireWriteConfig() error {
	if err := s.requireReadConfig(); err != nil {
		return err
	}
	if s.token == "" {
		return fmt.Errorf("%w: write token not set", store.ErrUnconfigured)
	}
	return nil
}

func (s *Store) documentURL() string {
	return s.endpoint + "/" + s.scope
}

func (s *Store) fetch(ctx context.Context) (document, error) {
	if err := s.requireReadConfig(); err != nil {
		return document{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.documentURL(), nil)
	if err != nil {
		return document{}, fmt.Errorf("%w: %v", store.ErrRequestFailed, err)
	}
	s.authorize(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return document{}, fmt.Errorf("%w: %v", store.ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return document{}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return document{}, fmt.Errorf("%w: GET %s returned %d", store.ErrRequestFailed, s.documentURL(), resp.StatusCode)
	}

	var doc document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return document{}, fmt.Errorf("%w: %v", store.ErrInvalidResponse, err)
	}
	if doc.RevisionsByID == nil {
		doc.RevisionsByID = map[string]string{}
	}
	return doc, nil
}

func (s *Store) put(ctx context.Context, doc document) (document, error) {
	body, err := json.Marshal(struct {
		Products []catalog.Record `json:"products"`
	}{Products: doc.Products})
	if err != nil {
		return document{}, fmt.Errorf("%w: %v", store.ErrRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.documentURL(), bytes.NewReader(body))
	if err != nil {
		return document{}, fmt.Errorf("%w: %v", store.ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	s.authorize(req)
	if doc.DocRevision != "" {
		req.Header.Set("If-Match", doc.DocRevision)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return document{}, fmt.Errorf("%w: %v", store.ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusPreconditionFailed:
		return document{}, fmt.Errorf("%w: document changed since read", store.ErrConflict)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return document{}, fmt.Errorf("%w: PUT %s returned %d", store.ErrRequestFailed, s.documentURL(), resp.StatusCode)
	}

	var updated document
	if err := json.NewDecoder(io.LimitReader(resp.Body, 32<<20)).Decode(&updated); err != nil {
		return document{}, fmt.Errorf("%w: %v", store.ErrInvalidResponse, err)
	}
	if updated.RevisionsByID == nil {
		updated.RevisionsByID = map[string]string{}
	}
	return updated, nil
}

func (s *Store) deleteDocument(ctx context.Context, docRevision string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.documentURL(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrRequestFailed, err)
	}
	s.authorize(req)
	if docRevision != "" {
		req.Header.Set("If-Match", docRevision)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusPreconditionFailed:
		return fmt.Errorf("%w: document changed since read", store.ErrConflict)
	case resp.StatusCode == http.StatusNotFound:
		return nil
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: DELETE %s returned %d", store.ErrRequestFailed, s.documentURL(), resp.StatusCode)
	}
	return nil
}

func (s *Store) authorize(req *http.Request) {
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
}
