package ldap

import (
	"context"
	"fmt"

	"github.com/go-ldap/ldap/v3"

	"managerof/internal/domain"
	"managerof/internal/ports"
)

// pagedIterator fetches one page of results at a time using the simple
// paged results control (RFC 2696).
type pagedIterator struct {
	ctx    context.Context
	conn   conn
	req    *ldap.SearchRequest
	paging *ldap.ControlPaging

	page    []*ldap.Entry
	pos     int
	current domain.Record
	started bool
	done    bool
	err     error
}

var _ ports.RecordIterator = (*pagedIterator)(nil)

func (it *pagedIterator) Next() bool {
	for {
		if it.err != nil {
			return false
		}
		if it.pos < len(it.page) {
			it.current = entryToRecord(it.page[it.pos])
			it.pos++
			return true
		}
		if it.done {
			return false
		}
		if err := it.ctx.Err(); err != nil {
			it.err = err
			return false
		}
		it.fetch()
	}
}

func (it *pagedIterator) fetch() {
	it.started = true

	res, err := it.conn.Search(it.req)
	if err != nil {
		it.err = fmt.Errorf("search %s: %w", it.req.BaseDN, err)
		return
	}
	it.page, it.pos = res.Entries, 0

	var cookie []byte
	if pc, ok := ldap.FindControl(res.Controls, ldap.ControlTypePaging).(*ldap.ControlPaging); ok {
		cookie = pc.Cookie
	}
	if len(cookie) == 0 {
		it.done = true
		return
	}
	it.paging.SetCookie(cookie)
}

func (it *pagedIterator) Record() domain.Record {
	return it.current
}

func (it *pagedIterator) Err() error {
	return it.err
}

// Close abandons an unfinished paged search so the server can drop the
// cursor it keeps for the cookie.
func (it *pagedIterator) Close() error {
	if !it.started || it.done || len(it.paging.Cookie) == 0 {
		it.done = true
		return nil
	}
	it.done = true
	it.page = nil

	it.paging.PagingSize = 0
	if _, err := it.conn.Search(it.req); err != nil {
		return fmt.Errorf("abandon paged search: %w", err)
	}
	return nil
}
