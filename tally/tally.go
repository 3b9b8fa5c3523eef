// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import "github.com/danielhkuo/quickly-poll/models"

// Count returns the number of ballots naming each option.
// Every option is present in the result; ballots naming an option outside
// options are ignored.
func Count(options []models.Option, ballots []models.Ballot) map[string]int {
	counts := make(map[string]int, len(options))
	for _, opt := range options {
		counts[opt.ID] = 0
	}

	for _, b := range ballots {
		if _, ok := counts[b.OptionID]; ok {
			counts[b.OptionID]++
		}
	}

	return counts
}

// Apply recomputes every option's VoteCount from the poll's ballots.
func Apply(p *models.Poll) {
	counts := Count(p.Options, p.Ballots)
	for i := range p.Options {
		p.Options[i].VoteCount = counts[p.Options[i].ID]
	}
}

// Total sums the vote counts of options.
func Total(options []models.Option) int {
	total := 0
	for _, opt := range options {
		total += opt.VoteCount
	}
	return total
}

// Analytics builds the tally report for a poll, recomputing counts first.
func Analytics(p models.Poll) models.Analytics {
	counts := Count(p.Options, p.Ballots)

	options := make([]models.OptionTally, len(p.Options))
	for i, opt := range p.Options {
		options[i] = models.OptionTally{
			ID:        opt.ID,
			Text:      opt.Text,
			VoteCount: counts[opt.ID],
		}
	}

	return models.Analytics{
		Title:      p.Title,
		TotalVotes: len(p.Ballots),
		Options:    options,
	}
}
