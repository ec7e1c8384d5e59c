package dummydb

import (
	"sync"

	"github.com/kmande/chuo/core/event"
	"github.com/kmande/chuo/core/forum"
	"github.com/kmande/chuo/core/material"
	"github.com/kmande/chuo/core/notice"
	"github.com/kmande/chuo/core/user"
)

type (
	DB struct {
		user     *userTable
		material *materialTable
		event    *eventTable
		forum    *forumTables
		notice   *noticeTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	materialTable struct {
		sync.RWMutex
		table map[string]*material.Material
	}

	eventTable struct {
		sync.RWMutex
		table map[string]*event.Event
		rsvps map[string]map[string]*event.RSVP // eventID -> userID -> rsvp
	}

	forumTables struct {
		sync.RWMutex
		posts    map[string]*forum.Post
		comments map[string][]*forum.Comment // postID -> comments, insertion order
	}

	noticeTable struct {
		sync.RWMutex
		table map[string]*notice.Notice
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:     &userTable{table: make(map[string]*user.User)},
		material: &materialTable{table: make(map[string]*material.Material)},
		event: &eventTable{
			table: make(map[string]*event.Event),
			rsvps: make(map[string]map[string]*event.RSVP),
		},
		forum: &forumTables{
			posts:    make(map[string]*forum.Post),
			comments: make(map[string][]*forum.Comment),
		},
		notice: &noticeTable{table: make(map[string]*notice.Notice)},
	}
	return db, nil
}
