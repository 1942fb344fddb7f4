package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// ExchangeEventsColumns holds the columns for the "exchange_events" table.
	ExchangeEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "query", Type: field.TypeString, Size: 2147483647},
		{Name: "topic", Type: field.TypeString},
		{Name: "difficulty", Type: field.TypeString},
		{Name: "answer", Type: field.TypeString, Size: 2147483647},
		{Name: "fallback", Type: field.TypeBool, Default: false},
		{Name: "status_code", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "error_message", Type: field.TypeString, Default: ""},
	}
	// ExchangeEventsTable holds the schema information for the "exchange_events" table.
	ExchangeEventsTable = &schema.Table{
		Name:       "exchange_events",
		Columns:    ExchangeEventsColumns,
		PrimaryKey: []*schema.Column{ExchangeEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "exchangeevent_sequence", Unique: false, Columns: []*schema.Column{ExchangeEventsColumns[1]}},
			{Name: "exchangeevent_timestamp", Unique: false, Columns: []*schema.Column{ExchangeEventsColumns[2]}},
			{Name: "exchangeevent_topic", Unique: false, Columns: []*schema.Column{ExchangeEventsColumns[4]}},
		},
	}

	// LlmRequestEventsColumns holds the columns for the "llm_request_events" table.
	LlmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
	}
	// LlmRequestEventsTable holds the schema information for the "llm_request_events" table.
	LlmRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    LlmRequestEventsColumns,
		PrimaryKey: []*schema.Column{LlmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_sequence", Unique: false, Columns: []*schema.Column{LlmRequestEventsColumns[1]}},
			{Name: "llmrequestevent_provider", Unique: false, Columns: []*schema.Column{LlmRequestEventsColumns[3]}},
			{Name: "llmrequestevent_purpose", Unique: false, Columns: []*schema.Column{LlmRequestEventsColumns[5]}},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		ExchangeEventsTable,
		LlmRequestEventsTable,
	}
)
