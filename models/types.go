// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Request types

type CreatePollRequest struct {
	Title             string   `json:"title"`
	Options           []string `json:"options"`
	AllowVoteChange   bool     `json:"allowVoteChange"`
	ShowInstantResult bool     `json:"showInstantResult"`
}

type VoteRequest struct {
	OptionID string `json:"optionId"`
}

type CredentialsRequest struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

// Response types

type ListPollsResponse struct {
	Polls       []Poll `json:"polls"`
	TotalPolls  int    `json:"totalPolls"`
	TotalPages  int    `json:"totalPages"`
	CurrentPage int    `json:"currentPage"`
}

type DashboardResponse struct {
	Polls []Poll `json:"polls"`
}

type SignupResponse struct {
	Message string `json:"message"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	UserID  string `json:"userId"`
}

// Domain types

type Poll struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Options           []Option  `json:"options"`
	CreatedBy         string    `json:"createdBy"`
	AllowVoteChange   bool      `json:"allowVoteChange"`
	ShowInstantResult bool      `json:"showInstantResult"`
	Ballots           []Ballot  `json:"ballots"`
	CreatedAt         time.Time `json:"createdAt"`
	Revision          int64     `json:"-"`
}

// Option is one selectable choice. VoteCount is a cache of the tally and is
// rewritten from the ballot set on every mutation and read.
type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	VoteCount int    `json:"voteCount"`
}

// Ballot is a voter's current choice within a poll.
type Ballot struct {
	VoterID   string    `json:"voterId"`
	OptionID  string    `json:"optionId"`
	CastAt    time.Time `json:"castAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasOption reports whether optionID names one of the poll's options.
func (p *Poll) HasOption(optionID string) bool {
	for _, opt := range p.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}

// BallotIndex returns the index of voterID's ballot in p.Ballots.
func (p *Poll) BallotIndex(voterID string) (int, bool) {
	for i, b := range p.Ballots {
		if b.VoterID == voterID {
			return i, true
		}
	}
	return -1, false
}

// Clone returns a deep copy so a mutation can be discarded without touching p.
func (p Poll) Clone() Poll {
	out := p
	out.Options = append([]Option(nil), p.Options...)
	out.Ballots = append([]Ballot(nil), p.Ballots...)
	if out.Options == nil {
		out.Options = []Option{}
	}
	if out.Ballots == nil {
		out.Ballots = []Ballot{}
	}
	return out
}

type CreatePollInput struct {
	Title             string
	Options           []string
	CreatedBy         string
	AllowVoteChange   bool
	ShowInstantResult bool
}

// PollFilter selects polls for listing. PageSize 0 means no limit.
type PollFilter struct {
	CreatedBy  string
	TitleQuery string
	Page       int
	PageSize   int
}

type PollPage struct {
	Items      []Poll
	TotalCount int
	TotalPages int
	Page       int
}

type OptionTally struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	VoteCount int    `json:"voteCount"`
}

type Analytics struct {
	Title      string        `json:"title"`
	TotalVotes int           `json:"totalVotes"`
	Options    []OptionTally `json:"options"`
}

type User struct {
	UserID       string    `json:"userId"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}
