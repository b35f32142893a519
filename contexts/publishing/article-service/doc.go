// Package articleservice publishes rich-text articles, including bulk
// import from Markdown sources.
package articleservice
