// Package domain defines the core business entities of the card generator:
// validated study cards, per-word generation outcomes, batch reports, and the
// generation rules handed to the language-model layer.
package domain
