// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package polls implements the poll store operations on top of a Repository.

# Operations

	service := polls.NewService(repo)

	poll, err := service.CreatePoll(ctx, models.CreatePollInput{...})
	poll, err := service.CastOrChangeVote(ctx, pollID, voterID, optionID)
	poll, err := service.GetPoll(ctx, pollID)
	page, err := service.ListPolls(ctx, models.PollFilter{Page: 1, PageSize: 10})
	hits, err := service.SearchPolls(ctx, "lunch")
	mine, err := service.Dashboard(ctx, userID)
	stats, err := service.Analytics(ctx, pollID)

# Voting Rules

A voter holds at most one ballot per poll. A second vote reassigns the
ballot when the poll allows vote changes and fails with
models.ErrVoteChangeNotAllowed otherwise, even for the same option. Options
must belong to the poll (models.ErrInvalidOption).

Poll, option, voter and creator IDs are trimmed of surrounding whitespace
on every operation, matching how CreatePoll and signup store them.

# Counts

Option vote counts are recomputed by package tally from the ballot set
inside every vote update and again on every read. A stored count is never
trusted.
*/
package polls
