package usecase

// RunTranscription is exported for testing the async leg of audio ingest
var RunTranscription = (*UseCases).runTranscription
