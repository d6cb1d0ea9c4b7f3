package mirror

import (
	"github.com/alexanderramin/orgchart/internal/domain"
	"github.com/alexanderramin/orgchart/internal/repository"
	"github.com/alexanderramin/orgchart/internal/workbook"
)

// RequestType identifies a message sent to the mirror.
type RequestType string

const (
	RequestNew     RequestType = "new"
	RequestOpen    RequestType = "open"
	RequestSearch  RequestType = "search"
	RequestMove    RequestType = "move"
	RequestSwap    RequestType = "swap"
	RequestGetTree RequestType = "getTree"
)

// SearchCategory selects the full-text index a search runs against.
type SearchCategory string

const (
	SearchOffices   SearchCategory = "offices"
	SearchPositions SearchCategory = "positions"
)

// Request is one message to the mirror. Only the fields of its Type are set.
type Request struct {
	Type RequestType `json:"type"`

	// open
	Buffer []byte `json:"buffer,omitempty"`

	// search
	Category SearchCategory `json:"category,omitempty"`
	Query    string         `json:"query,omitempty"`

	// move, swap
	Dragged     string `json:"dragged,omitempty"`
	Target      string `json:"target,omitempty"`
	Descendants bool   `json:"descendants,omitempty"`
}

func NewRequest() Request     { return Request{Type: RequestNew} }
func GetTreeRequest() Request { return Request{Type: RequestGetTree} }

func OpenRequest(buffer []byte) Request {
	return Request{Type: RequestOpen, Buffer: buffer}
}

func SearchRequest(category SearchCategory, query string) Request {
	return Request{Type: RequestSearch, Category: category, Query: query}
}

// MoveRequest reparents dragged under target. descendants is true when target
// lies inside dragged's subtree.
func MoveRequest(dragged, target string, descendants bool) Request {
	return Request{Type: RequestMove, Dragged: dragged, Target: target, Descendants: descendants}
}

func SwapRequest(dragged, target string) Request {
	return Request{Type: RequestSwap, Dragged: dragged, Target: target}
}

// ResponseType identifies a message sent back by the mirror.
type ResponseType string

const (
	ResponseTree            ResponseType = "tree"
	ResponseOffices         ResponseType = "offices"
	ResponsePositions       ResponseType = "positions"
	ResponseOpenError       ResponseType = "openError"
	ResponseOpenMissingData ResponseType = "openMissingData"
	ResponseError           ResponseType = "error"
)

// Response is one message from the mirror. Responses are not correlated with
// requests; consumers dispatch on Type.
type Response struct {
	Type ResponseType `json:"type"`

	Tree      *domain.Node                `json:"tree,omitempty"`
	Offices   []repository.OfficeResult   `json:"offices,omitempty"`
	Positions []repository.PositionResult `json:"positions,omitempty"`
	Missing   *workbook.MissingData       `json:"missing,omitempty"`
	Message   string                      `json:"message,omitempty"`
}
