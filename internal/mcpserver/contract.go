package mcpserver

// IngestContract describes the canonical conventions LLM consumers should
// follow when uploading documents into the archive.
const IngestContract = `# Document Ingest Contract

Files uploaded into the archive are processed automatically. Follow these
conventions to get clean metadata out of the pipeline.

## Filename conventions

` + "```" + `
20250115Z - Electric bill January.pdf
20250115093000Z - Meeting minutes.pdf
Plain scan.pdf
` + "```" + `

1. **Date prefix (optional).** ` + "`" + `YYYYMMDDZ - ` + "`" + ` or ` + "`" + `YYYYMMDDHHMMSSZ - ` + "`" + `
   at the start of the filename sets the document's created timestamp (UTC).
   The trailing ` + "`" + `Z` + "`" + ` and the ` + "`" + ` - ` + "`" + ` separator are mandatory for the
   prefix to be recognized; case of the ` + "`" + `Z` + "`" + ` does not matter.
2. **Title.** Everything after the separator (or the whole stem when there
   is no date prefix) becomes the document title, extension stripped.
3. **Extension** determines the stored MIME type. Prefer ` + "`" + `.pdf` + "`" + `.

## Processing rules

- **Duplicates are rejected.** Content is hashed (SHA-256); uploading bytes
  that match an existing document fails with a conflict.
- **Inbox tags** are attached to every newly consumed document. Review and
  retag via the HTTP API or the update tools.
- A **task record** tracks every consumption attempt and its outcome.

## Searching

Full-text search covers titles and extracted text content. Use plain words;
results come back ranked with a highlighted snippet.
`
