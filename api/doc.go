// Package api exposes the recommender and the feedback log over HTTP.
//
// Routes:
//
//	POST /api/recommendations            {query, userId?, feedback?} -> {recommendations, total}
//	POST /api/recommendation-feedback    record a liked/disliked verdict on a result set
//	GET  /api/recommendation-feedback    recent feedback, newest first (?limit=&userId=)
//
// Validation failures are answered with 400, everything else with 500.
package api
