package model

import "time"

// SenderRecord is one persisted row: a sender address observed in a folder.
type SenderRecord struct {
	DisplayName string // last non-empty display name seen (may be empty)
	Address     string
	Folder      string
	Count       int
	LastSeen    time.Time
}

// SenderTotal sums a sender's counts across every folder.
type SenderTotal struct {
	Address     string
	DisplayName string
	Count       int
}

// Sender is the (display name, address) pair parsed from a From header.
type Sender struct {
	DisplayName string
	Address     string
}

// SenderTally aggregates one run's observations of an address in one folder.
type SenderTally struct {
	Address     string
	DisplayName string
	Count       int
}

// Label is a server-side folder.
type Label struct {
	ID   string
	Name string
}

// MessagePage is one server response batch of message identifiers.
type MessagePage struct {
	IDs           []string
	NextPageToken string // empty when there is no more data
}

// FolderPlan names a folder to scan and the inclusive, one-indexed page window.
// EndPage 0 means "until the folder is exhausted".
type FolderPlan struct {
	Name      string `yaml:"name"`
	StartPage int    `yaml:"start_page"`
	EndPage   int    `yaml:"end_page"`
}
