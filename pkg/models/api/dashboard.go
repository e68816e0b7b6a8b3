package api

import "time"

type RowKind string

const (
	RowRegion RowKind = "region"
	RowItem   RowKind = "item"
	RowTotal  RowKind = "total"
)

type TimePeriod struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Duration int       `json:"duration_days"`
}

type Share struct {
	Name       string  `json:"name"`
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"`
}

type DailyValue struct {
	Date       string  `json:"date"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

type HierarchyRow struct {
	Kind       RowKind `json:"kind"`
	Name       string  `json:"name"`
	Region     string  `json:"region,omitempty"`
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"`
	Expanded   bool    `json:"expanded"`
}

type Session struct {
	Id string `json:"id"`
}

type ToggleRequest struct {
	Region string `json:"region"`
}

type Error struct {
	Error string `json:"error"`
}
