// Package devserver serves a built site from its root directory for local
// preview. It is not meant to face the internet: it binds to loopback by
// default and refuses any path that would leave the site root.
package devserver
