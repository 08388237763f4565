package handler

// notFoundMessage is the error_message of every miss
const notFoundMessage = "not found"

// Keys of every response object are in alphabetical order.

type BusResponse struct {
	Curvature       float64 `json:"curvature"`
	RequestID       int     `json:"request_id"`
	RouteLength     float64 `json:"route_length"`
	StopCount       int     `json:"stop_count"`
	UniqueStopCount int     `json:"unique_stop_count"`
}

type StopResponse struct {
	Buses     []string `json:"buses"`
	RequestID int      `json:"request_id"`
}

type RouteResponse struct {
	Items     []any   `json:"items"`
	RequestID int     `json:"request_id"`
	TotalTime float64 `json:"total_time"`
}

// RideItem is a ride segment of a RouteResponse
type RideItem struct {
	Bus       string  `json:"bus"`
	SpanCount int     `json:"span_count"`
	Time      float64 `json:"time"`
	Type      string  `json:"type"`
}

// WaitItem is a wait segment of a RouteResponse
type WaitItem struct {
	StopName string  `json:"stop_name"`
	Time     float64 `json:"time"`
	Type     string  `json:"type"`
}

type MapResponse struct {
	Map       string `json:"map"`
	RequestID int    `json:"request_id"`
}

type ErrorResponse struct {
	ErrorMessage string `json:"error_message"`
	RequestID    int    `json:"request_id"`
}

func notFound(id int) ErrorResponse {
	return ErrorResponse{ErrorMessage: notFoundMessage, RequestID: id}
}
