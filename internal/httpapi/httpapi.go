// Package httpapi wires the query layer and the operator's Submit
// entry point into a thin gin-gonic HTTP surface: a demo-session bootstrap
// endpoint, SSE streams for the shuffle and deal phases, and plain
// snapshot/message-range queries. Handlers hold no business logic; they
// translate HTTP requests into calls on query.Service and
// operator.Operator and translate the results back.
package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"onchainpoker/internal/ledger"
	"onchainpoker/internal/ledger/operator"
	"onchainpoker/internal/query"
)

// DemoSession is the bootstrap response for POST /games/demo: a fresh
// demo session id, the game/hand it created, a throwaway viewer key, and
// the hand's starting snapshot.
type DemoSession struct {
	DemoId          string                   `json:"demo_id"`
	GameId          ledger.GameId            `json:"game_id"`
	HandId          ledger.HandId            `json:"hand_id"`
	ViewerPublicKey string                   `json:"viewer_public_key"`
	InitialSnapshot ledger.AnyTableSnapshot  `json:"initial_snapshot"`
}

// DemoSessionFactory creates a new demo game+hand on demand; supplied by
// the caller since constructing one requires lobby/coordinator wiring
// that httpapi itself should not own.
type DemoSessionFactory func() (ledger.GameId, ledger.HandId, ledger.AnyTableSnapshot, string, error)

// Server bundles the dependencies httpapi's handlers need.
type Server struct {
	Query    *query.Service
	Operator *operator.Operator
	NewDemo  DemoSessionFactory
}

// Router builds the full gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/games/demo", s.createDemo)
	r.GET("/games/demo/:id/shuffle", s.streamPhase(ledger.PhaseShuffling))
	r.GET("/games/demo/:id/deal", s.streamPhase(ledger.PhaseDealing))
	r.GET("/game/:game/hand/:hand/snapshot", s.getSnapshot)
	r.GET("/game/:game/hand/:hand/messages", s.getMessages)
	r.POST("/game/:game/hand/:hand/submit", s.submitEnvelope)
	return r
}

func (s *Server) createDemo(c *gin.Context) {
	gameID, handID, initial, viewerKey, err := s.NewDemo()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, DemoSession{
		DemoId:          uuid.NewString(),
		GameId:          gameID,
		HandId:          handID,
		ViewerPublicKey: viewerKey,
		InitialSnapshot: initial,
	})
}

// streamPhase returns an SSE handler that reads the latest snapshot for
// :id's hand once: it emits a "snapshot" event if that snapshot's phase is
// want, then a "done" event carrying the current phase, and returns. It
// does not poll or wait for later snapshots.
func (s *Server) streamPhase(want ledger.Phase) gin.HandlerFunc {
	return func(c *gin.Context) {
		handID, err := parseHandId(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")

		snap, _, err := s.Query.LatestSnapshot(c.Request.Context(), handID)
		if err != nil {
			c.SSEvent("error", err.Error())
			return
		}
		if snap.Phase == want {
			c.SSEvent("snapshot", snap)
		}
		c.SSEvent("done", gin.H{"phase": snap.Phase.String()})
	}
}

func (s *Server) getSnapshot(c *gin.Context) {
	handID, err := parseHandId(c.Param("hand"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap, hash, err := s.Query.LatestSnapshot(c.Request.Context(), handID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshot": snap, "state_hash": hash.String()})
}

func (s *Server) getMessages(c *gin.Context) {
	handID, err := parseHandId(c.Param("hand"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	from := parseSeqQuery(c, "from_sequence")
	to := parseSeqQuery(c, "to_sequence")

	msgs, err := s.Query.MessagesInRange(c.Request.Context(), handID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (s *Server) submitEnvelope(c *gin.Context) {
	handID, err := parseHandId(c.Param("hand"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var env ledger.Envelope
	if err := c.ShouldBindJSON(&env); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.Operator.Submit(handID, env); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

func parseHandId(s string) (ledger.HandId, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return ledger.HandId(n), nil
}

func parseSeqQuery(c *gin.Context, key string) ledger.SnapshotSeq {
	v := c.Query(key)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0
	}
	return ledger.SnapshotSeq(n)
}
