package inmemdb

import (
	"sync"

	"github.com/trezcool/tafakari/core/reflection"
	"github.com/trezcool/tafakari/core/user"
)

type (
	DB struct {
		user       *userTable
		reflection *reflectionTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
		order []string // insertion order
	}

	reflectionTable struct {
		sync.RWMutex
		table map[string]*reflection.Reflection
		order []string // insertion order
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		reflection: &reflectionTable{table: make(map[string]*reflection.Reflection)},
	}
	return db, nil
}
