package anki

// Note is a single flashcard record to be added through AnkiConnect.
// Field keys must match the declared field names of the target model;
// AnkiConnect itself has the final word on validation.
type Note struct {
	DeckName  string            `json:"deckName"`
	ModelName string            `json:"modelName"`
	Fields    map[string]string `json:"fields"`
	Tags      []string          `json:"tags"`
	Options   *NoteOptions      `json:"options,omitempty"`
}

// NoteOptions carries per-note submission flags understood by AnkiConnect.
type NoteOptions struct {
	AllowDuplicate bool `json:"allowDuplicate"`
}

// FieldValue is the value/order pair AnkiConnect returns for each field of
// an existing note.
type FieldValue struct {
	Value string `json:"value"`
	Order int    `json:"order"`
}

// NoteInfo is the read shape of an existing note as returned by the
// notesInfo action.
type NoteInfo struct {
	NoteID    int64                 `json:"noteId"`
	ModelName string                `json:"modelName"`
	Tags      []string              `json:"tags"`
	Fields    map[string]FieldValue `json:"fields"`
}
