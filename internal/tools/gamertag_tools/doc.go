// Package gamertag_tools provides tools addressing ZBD users by gamertag:
// payments, charges and lookups between gamertags and user ids.
package gamertag_tools
