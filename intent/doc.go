// Package intent classifies incoming queries before retrieval: stock price
// questions bypass the document pipeline entirely, and follow-up phrasing
// is flagged so degraded responses can acknowledge earlier turns.
package intent
