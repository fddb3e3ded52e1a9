package zombiezen

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	sent "github.com/revelaction/lemrule/sentence"
	"github.com/revelaction/lemrule/storage"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

type DocStore struct {
	ctx  context.Context
	pool *sqlitex.Pool
}

var _ storage.DocRepository = (*DocStore)(nil)

// NewDocStore returns a store on pool. Connections are taken with ctx, a
// canceled ctx makes every operation fail.
func NewDocStore(ctx context.Context, pool *sqlitex.Pool) *DocStore {
	return &DocStore{ctx: ctx, pool: pool}
}

func (h *DocStore) List(labelMatch string) ([]sent.Doc, error) {
	conn, err := h.pool.Take(h.ctx)
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	query := "SELECT id, title, labels FROM docs ORDER BY id"
	var args []interface{}
	if labelMatch != "" {
		query = "SELECT id, title, labels FROM docs WHERE instr(labels, ?) > 0 ORDER BY id"
		args = append(args, labelMatch)
	}

	docs := []sent.Doc{}
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			doc := sent.Doc{
				Id:    stmt.ColumnInt(0),
				Title: stmt.ColumnText(1),
			}
			labelsStr := stmt.ColumnText(2)
			if labelsStr != "" {
				doc.Labels = strings.Split(labelsStr, ",")
			}
			docs = append(docs, doc)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (h *DocStore) Read(id int) (sent.Doc, error) {
	conn, err := h.pool.Take(h.ctx)
	if err != nil {
		return sent.Doc{}, err
	}
	defer h.pool.Put(conn)

	doc := sent.Doc{Id: id}
	found := false

	err = sqlitex.Execute(conn, "SELECT title, labels FROM docs WHERE id = ?", &sqlitex.ExecOptions{
		Args: []interface{}{id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			doc.Title = stmt.ColumnText(0)
			if labelsStr := stmt.ColumnText(1); labelsStr != "" {
				doc.Labels = strings.Split(labelsStr, ",")
			}
			return nil
		},
	})
	if err != nil {
		return sent.Doc{}, err
	}
	if !found {
		return sent.Doc{}, fmt.Errorf("doc %d: %w", id, storage.ErrNotFound)
	}

	err = sqlitex.Execute(conn, "SELECT sent_id, data FROM sentences WHERE doc_id = ? ORDER BY rowid", &sqlitex.ExecOptions{
		Args: []interface{}{id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			s := sent.Sentence{Id: stmt.ColumnInt(0), DocId: id}
			if err := json.Unmarshal([]byte(stmt.ColumnText(1)), &s.Tokens); err != nil {
				return err
			}
			doc.Sentences = append(doc.Sentences, s)
			return nil
		},
	})
	if err != nil {
		return sent.Doc{}, err
	}

	return doc, nil
}

// FindCandidates returns the sentences containing all lemmas. Without lemmas
// all sentences are candidates. The cursor is the sentence rowid.
func (h *DocStore) FindCandidates(lemmas []string, after storage.Cursor, limit int, onCandidate func(sent.Sentence) error) (storage.Cursor, error) {
	conn, err := h.pool.Take(h.ctx)
	if err != nil {
		return after, err
	}
	defer h.pool.Put(conn)

	// Build query dynamically based on number of lemmas.
	// We use INTERSECT to ensure that we only get sentence_rowids that contain ALL lemmas.
	var queryBuilder strings.Builder
	var args []interface{}

	if len(lemmas) == 0 {
		queryBuilder.WriteString("SELECT rowid FROM sentences WHERE rowid > ?")
		args = append(args, after)
	}

	for i, lemma := range lemmas {
		if i > 0 {
			queryBuilder.WriteString(" INTERSECT ")
		}
		queryBuilder.WriteString("SELECT sentence_rowid FROM sentence_lemmas WHERE lemma = ? AND sentence_rowid > ?")
		args = append(args, lemma, after)
	}
	queryBuilder.WriteString(" ORDER BY 1")
	if limit > 0 {
		queryBuilder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}

	// We need to fetch the rowIDs first
	var rowIDs []int64
	err = sqlitex.Execute(conn, queryBuilder.String(), &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			rowIDs = append(rowIDs, stmt.ColumnInt64(0))
			return nil
		},
	})
	if err != nil {
		return after, err
	}

	if len(rowIDs) == 0 {
		return after, nil
	}

	idStrings := make([]string, len(rowIDs))
	for i, id := range rowIDs {
		idStrings[i] = strconv.FormatInt(id, 10)
	}
	idList := strings.Join(idStrings, ",")

	query := fmt.Sprintf("SELECT rowid, doc_id, sent_id, data FROM sentences WHERE rowid IN (%s) ORDER BY rowid", idList)

	newCursor := after
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			rowID := stmt.ColumnInt64(0)
			if storage.Cursor(rowID) > newCursor {
				newCursor = storage.Cursor(rowID)
			}

			s := sent.Sentence{
				DocId: stmt.ColumnInt(1),
				Id:    stmt.ColumnInt(2),
			}
			if err := json.Unmarshal([]byte(stmt.ColumnText(3)), &s.Tokens); err != nil {
				return err
			}
			return onCandidate(s)
		},
	})
	if err != nil {
		return after, err
	}

	return newCursor, nil
}

func (h *DocStore) Write(doc sent.Doc) (id int, err error) {
	conn, err := h.pool.Take(h.ctx)
	if err != nil {
		return 0, err
	}
	defer h.pool.Put(conn)

	// Start Transaction
	defer sqlitex.Save(conn)(&err)

	// Insert Doc
	labels := strings.Join(doc.Labels, ",")
	err = sqlitex.Execute(conn, "INSERT INTO docs (title, labels) VALUES (?, ?)", &sqlitex.ExecOptions{
		Args: []interface{}{doc.Title, labels},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert doc: %w", err)
	}
	docID := conn.LastInsertRowID()

	for _, sentence := range doc.Sentences {
		data, marshalErr := json.Marshal(sentence.Tokens)
		if marshalErr != nil {
			return 0, marshalErr
		}

		err = sqlitex.Execute(conn, "INSERT INTO sentences (doc_id, sent_id, data) VALUES (?, ?, ?)", &sqlitex.ExecOptions{
			Args: []interface{}{docID, sentence.Id, string(data)},
		})
		if err != nil {
			return 0, fmt.Errorf("failed to insert sentence: %w", err)
		}
		sentRowID := conn.LastInsertRowID()

		// Extract unique lemmas
		uniqueLemmas := make(map[string]bool)
		for _, token := range sentence.Tokens {
			if token.Lemma != "" {
				uniqueLemmas[token.Lemma] = true
			}
		}

		for lemma := range uniqueLemmas {
			err = sqlitex.Execute(conn, "INSERT INTO sentence_lemmas (lemma, sentence_rowid) VALUES (?, ?)", &sqlitex.ExecOptions{
				Args: []interface{}{lemma, sentRowID},
			})
			if err != nil {
				return 0, fmt.Errorf("failed to insert lemma: %w", err)
			}
		}
	}

	return int(docID), nil
}
