package showcase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// FirestoreStore persists the active-display set in a Firestore
// collection, one document per repository keyed by its name.
type FirestoreStore struct {
	provider   *Provider
	collection string
}

type entryDocument struct {
	Name        string    `firestore:"name"`
	Description string    `firestore:"description"`
	URL         string    `firestore:"url"`
	Topics      []string  `firestore:"topics"`
	UpdatedAt   time.Time `firestore:"updatedAt"`
}

// NewFirestoreStore constructs a Firestore-backed active-display store.
func NewFirestoreStore(provider *Provider, collection string) (*FirestoreStore, error) {
	if provider == nil {
		return nil, errors.New("showcase: store requires firestore provider")
	}
	if strings.TrimSpace(collection) == "" {
		return nil, errors.New("showcase: store requires a collection name")
	}
	return &FirestoreStore{provider: provider, collection: collection}, nil
}

// Put creates or replaces the document keyed by entry.Name.
func (s *FirestoreStore) Put(ctx context.Context, entry Entry) error {
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		return errors.New("showcase: entry name is required")
	}
	coll, err := s.collectionRef(ctx)
	if err != nil {
		return err
	}

	updatedAt := entry.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	doc := entryDocument{
		Name:        name,
		Description: entry.Description,
		URL:         entry.URL,
		Topics:      append([]string(nil), entry.Topics...),
		UpdatedAt:   updatedAt.UTC(),
	}
	if _, err := coll.Doc(name).Set(ctx, doc); err != nil {
		return wrapError("showcase.put", err)
	}
	return nil
}

// Remove deletes the document keyed by name. Deleting an absent
// document succeeds.
func (s *FirestoreStore) Remove(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("showcase: entry name is required")
	}
	coll, err := s.collectionRef(ctx)
	if err != nil {
		return err
	}
	if _, err := coll.Doc(name).Delete(ctx); err != nil {
		return wrapError("showcase.remove", err)
	}
	return nil
}

// List returns the current entry set in store order.
func (s *FirestoreStore) List(ctx context.Context) ([]Entry, error) {
	coll, err := s.collectionRef(ctx)
	if err != nil {
		return nil, err
	}

	iter := coll.Documents(ctx)
	defer iter.Stop()

	var entries []Entry
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, wrapError("showcase.list", err)
		}
		entry, err := decodeEntryDocument(snap)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Watch opens a snapshot stream over the collection. The stream
// delivers the full current set immediately and on every change.
func (s *FirestoreStore) Watch(ctx context.Context) (Snapshots, error) {
	coll, err := s.collectionRef(ctx)
	if err != nil {
		return nil, err
	}
	return &firestoreSnapshots{iter: coll.Snapshots(ctx)}, nil
}

type firestoreSnapshots struct {
	iter *firestore.QuerySnapshotIterator
}

func (s *firestoreSnapshots) Next() ([]Entry, error) {
	snap, err := s.iter.Next()
	if err != nil {
		return nil, wrapError("showcase.watch", err)
	}

	docs, err := snap.Documents.GetAll()
	if err != nil {
		return nil, wrapError("showcase.watch", err)
	}

	entries := make([]Entry, 0, len(docs))
	for _, doc := range docs {
		entry, err := decodeEntryDocument(doc)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *firestoreSnapshots) Stop() {
	s.iter.Stop()
}

func (s *FirestoreStore) collectionRef(ctx context.Context) (*firestore.CollectionRef, error) {
	if s == nil || s.provider == nil {
		return nil, errors.New("showcase: store not initialised")
	}
	client, err := s.provider.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Collection(s.collection), nil
}

func decodeEntryDocument(snap *firestore.DocumentSnapshot) (Entry, error) {
	var doc entryDocument
	if err := snap.DataTo(&doc); err != nil {
		return Entry{}, fmt.Errorf("showcase: decode entry %s: %w", snap.Ref.ID, err)
	}
	name := doc.Name
	if name == "" {
		name = snap.Ref.ID
	}
	return Entry{
		ID:          snap.Ref.ID,
		Name:        name,
		Description: doc.Description,
		URL:         doc.URL,
		Topics:      doc.Topics,
		UpdatedAt:   doc.UpdatedAt,
	}, nil
}

// Ensure interface compliance.
var _ Store = (*FirestoreStore)(nil)
