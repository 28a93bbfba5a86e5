package storage

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/s-min-sys/billsplitbe/internal/model"
	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libeasygo/pathutils"
	"github.com/sgostarter/libeasygo/stg/fs/rawfs"
	"github.com/sgostarter/libeasygo/stg/mwf"
	"golang.org/x/exp/slices"
)

// AnonymousScope is the storage scope used when no account is signed in.
// Scopes never merge: signing in switches the visible data set entirely.
const AnonymousScope = "anonymous"

// Storage keeps groups and expenses per scope. Each collection is one JSON
// file rewritten on every mutation; the two files of a scope are not updated
// transactionally, mirroring the two independent browser storage keys this
// replaces.
type Storage interface {
	Groups(scope string) ([]model.Group, error)
	GetGroup(scope, groupID string) (model.Group, error)
	NewGroup(scope, name string) (group model.Group, err error)
	DeleteGroup(scope, groupID string) error

	AddParticipant(scope, groupID, name string) (participant model.Participant, err error)
	RemoveParticipant(scope, groupID, participantID string) error

	Expenses(scope, groupID string) ([]model.Expense, error)
	AddExpense(scope string, expense model.Expense) (saved model.Expense, err error)
	DeleteExpense(scope, expenseID string) error
}

func NewStorage(dataRoot string, debug bool, logger l.Wrapper) Storage {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	booksRoot := filepath.Join(dataRoot, "books")

	_ = pathutils.MustDirExists(booksRoot)

	return &storageImpl{
		logger:    logger.WithFields(l.StringField(l.ClsKey, "storageImpl")),
		booksRoot: booksRoot,
		debug:     debug,
		books:     make(map[string]*book),
	}
}

// book holds one scope's two collections.
type book struct {
	groups   *mwf.MemWithFile[[]model.Group, mwf.Serial, mwf.Lock]
	expenses *mwf.MemWithFile[[]model.Expense, mwf.Serial, mwf.Lock]
}

type storageImpl struct {
	logger    l.Wrapper
	booksRoot string
	debug     bool

	booksLock sync.Mutex
	books     map[string]*book
}

func (impl *storageImpl) getBook(scope string) *book {
	impl.booksLock.Lock()
	defer impl.booksLock.Unlock()

	if scope == "" {
		scope = AnonymousScope
	}

	b, ok := impl.books[scope]
	if !ok {
		b = &book{
			groups: mwf.NewMemWithFile[[]model.Group, mwf.Serial, mwf.Lock](
				nil, &mwf.JSONSerial{
					MarshalIndent: impl.debug,
				}, &sync.RWMutex{}, "groups-"+scope, rawfs.NewFSStorage(impl.booksRoot)),
			expenses: mwf.NewMemWithFile[[]model.Expense, mwf.Serial, mwf.Lock](
				nil, &mwf.JSONSerial{
					MarshalIndent: impl.debug,
				}, &sync.RWMutex{}, "expenses-"+scope, rawfs.NewFSStorage(impl.booksRoot)),
		}

		impl.books[scope] = b
	}

	return b
}

func (impl *storageImpl) Groups(scope string) (groups []model.Group, err error) {
	impl.getBook(scope).groups.Read(func(stored []model.Group) {
		groups = make([]model.Group, len(stored))
		copy(groups, stored)
	})

	return
}

func (impl *storageImpl) GetGroup(scope, groupID string) (group model.Group, err error) {
	impl.getBook(scope).groups.Read(func(stored []model.Group) {
		for _, g := range stored {
			if g.ID == groupID {
				group = g

				return
			}
		}

		err = commerr.ErrNotFound
	})

	return
}

func (impl *storageImpl) NewGroup(scope, name string) (group model.Group, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		err = commerr.ErrInvalidArgument

		return
	}

	err = impl.getBook(scope).groups.Change(func(stored []model.Group) (newStored []model.Group, err error) {
		group = model.Group{
			ID:           newID(),
			Name:         name,
			At:           time.Now().Unix(),
			Participants: make([]model.Participant, 0),
		}

		newStored = append(stored, group)

		return
	})

	return
}

func (impl *storageImpl) DeleteGroup(scope, groupID string) error {
	b := impl.getBook(scope)

	err := b.groups.Change(func(stored []model.Group) (newStored []model.Group, err error) {
		newStored = stored

		for idx, g := range stored {
			if g.ID == groupID {
				newStored = slices.Delete(stored, idx, idx+1)

				return
			}
		}

		err = commerr.ErrNotFound

		return
	})
	if err != nil {
		return err
	}

	// Cascade: drop every expense of the group. Runs after the group write, so
	// a crash in between can leave orphan expenses behind; they are invisible
	// through Expenses and harmless.
	err = b.expenses.Change(func(stored []model.Expense) (newStored []model.Expense, err error) {
		newStored = make([]model.Expense, 0, len(stored))

		for _, expense := range stored {
			if expense.GroupID != groupID {
				newStored = append(newStored, expense)
			}
		}

		return
	})
	if err != nil {
		impl.logger.WithFields(l.ErrorField(err), l.StringField("groupID", groupID)).
			Warn("cascade expense delete failed")
	}

	return nil
}

func (impl *storageImpl) AddParticipant(scope, groupID, name string) (participant model.Participant, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		err = commerr.ErrInvalidArgument

		return
	}

	err = impl.getBook(scope).groups.Change(func(stored []model.Group) (newStored []model.Group, err error) {
		newStored = stored

		for idx, g := range stored {
			if g.ID != groupID {
				continue
			}

			// Duplicate names are allowed; they merge in settlement math.
			participant = model.Participant{
				ID:   newID(),
				Name: name,
			}

			g.Participants = append(g.Participants, participant)
			newStored[idx] = g

			return
		}

		err = commerr.ErrNotFound

		return
	})

	return
}

func (impl *storageImpl) RemoveParticipant(scope, groupID, participantID string) error {
	return impl.getBook(scope).groups.Change(func(stored []model.Group) (newStored []model.Group, err error) {
		newStored = stored

		for idx, g := range stored {
			if g.ID != groupID {
				continue
			}

			for pIdx, p := range g.Participants {
				if p.ID == participantID {
					// No cascade into expenses: recorded names stay dangling.
					g.Participants = slices.Delete(g.Participants, pIdx, pIdx+1)
					newStored[idx] = g

					return
				}
			}

			break
		}

		err = commerr.ErrNotFound

		return
	})
}

func (impl *storageImpl) Expenses(scope, groupID string) (expenses []model.Expense, err error) {
	impl.getBook(scope).expenses.Read(func(stored []model.Expense) {
		expenses = make([]model.Expense, 0, len(stored))

		for _, expense := range stored {
			if expense.GroupID == groupID {
				expenses = append(expenses, expense)
			}
		}
	})

	return
}

func (impl *storageImpl) AddExpense(scope string, expense model.Expense) (saved model.Expense, err error) {
	if expense.GroupID == "" {
		err = commerr.ErrInvalidArgument

		return
	}

	b := impl.getBook(scope)

	var groupExists bool

	b.groups.Read(func(stored []model.Group) {
		for _, g := range stored {
			if g.ID == expense.GroupID {
				groupExists = true

				return
			}
		}
	})

	if !groupExists {
		err = commerr.ErrNotFound

		return
	}

	err = b.expenses.Change(func(stored []model.Expense) (newStored []model.Expense, err error) {
		expense.ID = newID()
		if expense.At <= 0 {
			expense.At = time.Now().Unix()
		}

		saved = expense
		newStored = append(stored, expense)

		return
	})

	return
}

func (impl *storageImpl) DeleteExpense(scope, expenseID string) error {
	return impl.getBook(scope).expenses.Change(func(stored []model.Expense) (newStored []model.Expense, err error) {
		newStored = stored

		for idx, expense := range stored {
			if expense.ID == expenseID {
				newStored = slices.Delete(stored, idx, idx+1)

				return
			}
		}

		err = commerr.ErrNotFound

		return
	})
}
