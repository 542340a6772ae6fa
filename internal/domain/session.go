package domain

import "time"

// SearchSession is a user's in-memory paginated snapshot of one search.
// A user has at most one session at a time; a new search replaces it.
type SearchSession struct {
	ID           string
	UserID       int64
	Query        string
	Tags         []string
	Posts        []Post
	PageIndex    int
	PostsPerPage int
	LastTouched  time.Time
}

// TotalPages returns the number of pages for the snapshot.
func (s *SearchSession) TotalPages() int {
	if s.PostsPerPage <= 0 || len(s.Posts) == 0 {
		return 0
	}
	return (len(s.Posts) + s.PostsPerPage - 1) / s.PostsPerPage
}

// ClampPage bounds a requested page index into [0, TotalPages-1].
func (s *SearchSession) ClampPage(page int) int {
	if page < 0 {
		return 0
	}
	if last := s.TotalPages() - 1; page > last {
		if last < 0 {
			return 0
		}
		return last
	}
	return page
}

// Page returns the slice of posts on the given page index.
// The index is clamped, so Page never panics.
func (s *SearchSession) Page(index int) []Post {
	index = s.ClampPage(index)
	start := index * s.PostsPerPage
	if start >= len(s.Posts) {
		return nil
	}
	end := min(start+s.PostsPerPage, len(s.Posts))
	return s.Posts[start:end]
}

// View builds the page view for the session's current page.
func (s *SearchSession) View() *PageView {
	return &PageView{
		PageIndex:  s.PageIndex,
		TotalPages: s.TotalPages(),
		Posts:      s.Page(s.PageIndex),
	}
}

// IdleSince reports whether the session has not been touched since the
// given deadline.
func (s *SearchSession) IdleSince(deadline time.Time) bool {
	return s.LastTouched.Before(deadline)
}

// PageView is one page of search results handed to the front end.
type PageView struct {
	PageIndex  int
	TotalPages int
	Posts      []Post
}
