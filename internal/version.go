package internal

// ClientVersion is the current version string of the client. This is updated by our release scripts.
const ClientVersion = "1.0.0"
