package domain

import "time"

// QueryStatus enumerates lifecycle states for customer queries.
type QueryStatus string

const (
	QueryStatusNew        QueryStatus = "new"
	QueryStatusInProgress QueryStatus = "in_progress"
	QueryStatusResolved   QueryStatus = "resolved"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s QueryStatus) Valid() bool {
	switch s {
	case QueryStatusNew, QueryStatusInProgress, QueryStatusResolved:
		return true
	}
	return false
}

// QueryPriority enumerates urgency levels.
type QueryPriority string

const (
	QueryPriorityLow    QueryPriority = "low"
	QueryPriorityMedium QueryPriority = "medium"
	QueryPriorityHigh   QueryPriority = "high"
)

// Valid reports whether the priority is one of the known levels.
func (p QueryPriority) Valid() bool {
	switch p {
	case QueryPriorityLow, QueryPriorityMedium, QueryPriorityHigh:
		return true
	}
	return false
}

// QueryChannel enumerates the inbound mediums a query can arrive from.
type QueryChannel string

const (
	ChannelEmail     QueryChannel = "email"
	ChannelTwitter   QueryChannel = "twitter"
	ChannelFacebook  QueryChannel = "facebook"
	ChannelInstagram QueryChannel = "instagram"
	ChannelChat      QueryChannel = "chat"
	ChannelCommunity QueryChannel = "community"
)

// Valid reports whether the channel is a known inbound medium.
func (c QueryChannel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelTwitter, ChannelFacebook, ChannelInstagram, ChannelChat, ChannelCommunity:
		return true
	}
	return false
}

// Query is the aggregate for a triaged inbound customer message.
type Query struct {
	ID           string
	Channel      QueryChannel
	SenderName   string
	SenderEmail  *string
	Subject      *string
	Content      string
	Tags         []string
	Priority     QueryPriority
	Status       QueryStatus
	AssignedTo   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ResolvedAt   *time.Time
	ResponseTime *int64
}
