// Package services contains the core business logic, wired to infrastructure
// through the driven ports. Each service implements one driving interface:
// ResearchService runs the academic flow, MarketService the news flow,
// ChatService the grounded question answering, HistoryService the report
// archive. The Ingestor is the shared split-embed-index pipeline they all
// feed.
package services
