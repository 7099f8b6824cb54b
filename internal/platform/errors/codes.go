// Package errors provides structured error handling for the game service.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// CodeInvalidArgument represents a malformed or unparseable request.
	CodeInvalidArgument Code = "INVALID_ARGUMENT"

	// Board errors
	CodeBoardOutOfBounds  Code = "BOARD_CELL_OUT_OF_BOUNDS"
	CodeBoardCellOccupied Code = "BOARD_CELL_OCCUPIED"

	// Company errors
	CodeCompanyPoolExhausted Code = "COMPANY_POOL_EXHAUSTED"

	// Match errors
	CodeMatchInvalidPlayerCount Code = "MATCH_INVALID_PLAYER_COUNT"
	CodeMatchFinished           Code = "MATCH_FINISHED"
	CodeMatchNotPlayersTurn     Code = "MATCH_NOT_PLAYERS_TURN"
	CodeMatchTileNotInHand      Code = "MATCH_TILE_NOT_IN_HAND"
	CodeMatchInvalidTileLabel   Code = "MATCH_INVALID_TILE_LABEL"
	CodeMatchUnknownPlayer      Code = "MATCH_UNKNOWN_PLAYER"

	// Storage errors
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, bad input
	case CodeInvalidArgument,
		CodeBoardOutOfBounds,
		CodeMatchInvalidPlayerCount,
		CodeMatchInvalidTileLabel,
		CodeMatchUnknownPlayer:
		return http.StatusBadRequest

	// Conflict - state doesn't allow operation
	case CodeBoardCellOccupied,
		CodeCompanyPoolExhausted,
		CodeMatchFinished,
		CodeMatchNotPlayersTurn,
		CodeMatchTileNotInHand,
		CodeAlreadyExists:
		return http.StatusConflict

	// Not found - resource doesn't exist
	case CodeNotFound:
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}
