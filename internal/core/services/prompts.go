package services

// Built-in prompt templates. The file prompt store ships the same text as
// user-editable files; these constants are the last-resort fallback when no
// prompt store is wired or a template cannot be read.

// defaultPaperSelectPrompt picks the most relevant paper from candidates.
const defaultPaperSelectPrompt = `You are a research assistant. A user wants to research the topic: "%s"

Below is a list of papers. Select the single most relevant paper.
Return ONLY the ID of that paper, nothing else.

%s`

// defaultPresentationPrompt produces the structured paper summary.
const defaultPresentationPrompt = `You are an expert academic researcher. Summarise the following paper as a structured presentation in markdown with exactly these sections:

# [Title]
## Key Findings
## Methodology
## Conclusion

Paper text:
%s`

// defaultMarketReportPrompt produces the market intelligence report.
const defaultMarketReportPrompt = `You are a Senior Market Analyst. Write a market intelligence report on "%s" based on the news context below. Use markdown with exactly these sections:

## Executive Summary
## Key Trends
## Competitor Landscape
## SWOT Analysis
## Strategic Outlook

News context:
%s`

// defaultChartExtractPrompt asks for strict-JSON chart data.
const defaultChartExtractPrompt = `Extract the most chart-worthy numerical data from the text below.
Respond with ONLY a JSON object in this exact shape:
{"title": "...", "labels": ["...", "..."], "values": [1.0, 2.0], "type": "bar"}
where "type" is one of "bar", "pie" or "line".
If the text contains no data worth charting, respond with exactly {}.

Text:
%s`

// defaultChatSystemPrompt grounds follow-up answers in retrieved context.
const defaultChatSystemPrompt = `You are an expert analyst. Answer based on the provided context.`
