package store

import "github.com/tomhoover/paperless-ngx/internal/models"

// DocumentStore defines the persistence operations consumers depend on.
// Depend on this interface rather than the concrete *DB type to facilitate
// testing with mocks.
type DocumentStore interface {
	CreateDocument(d *models.Document) error
	UpdateDocument(d *models.Document) error
	GetDocument(id int64) (*models.Document, error)
	DocumentByChecksum(sum string) (*models.Document, error)
	DeleteDocument(id int64) error
	ListDocuments(limit, offset int, tagID int64, sort string) ([]models.Document, int, error)
	AllDocuments() ([]models.Document, error)
	Search(query string, limit int) ([]SearchResult, error)

	CreateTag(t *models.Tag) error
	ListTags() ([]models.Tag, error)
	InboxTagIDs() ([]int64, error)
	CreateCorrespondent(c *models.Correspondent) error
	GetCorrespondent(id int64) (*models.Correspondent, error)
	ListCorrespondents() ([]models.Correspondent, error)
	CreateDocumentType(dt *models.DocumentType) error
	ListDocumentTypes() ([]models.DocumentType, error)
	CreateStoragePath(sp *models.StoragePath) error
	ListStoragePaths() ([]models.StoragePath, error)

	CreateSavedView(v *models.SavedView) error
	ListSavedViews() ([]models.SavedView, error)
	DeleteSavedView(id int64) error

	CreateTask(t *models.Task) error
	UpdateTaskStatus(taskID, status, result string) error
	AcknowledgeTask(id int64) error
	ListTasks(unackedOnly bool) ([]models.Task, error)
	GetTask(taskID string) (*models.Task, error)

	AddNote(n *models.Note) error
	NotesForDocument(docID int64) ([]models.Note, error)

	Option(key string) (value string, found bool, err error)
	SetOption(key, value string) error

	Close() error
}

// Verify *DB satisfies DocumentStore at compile time.
var _ DocumentStore = (*DB)(nil)
