// Package constants provides shared constants for the sleep-scatter application
package constants

// AppName is shown in page titles and log lines
const AppName = "Sleep Scatter"

// SessionCookieName is the cookie carrying the view session identifier
const SessionCookieName = "sleep_scatter_session"
