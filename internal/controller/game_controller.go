package controller

import (
	"errors"

	"archtutor_backend/internal/model"
	"archtutor_backend/internal/service"
	"archtutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GameController struct {
	games    *service.GameService
	hangman  *service.HangmanService
	wordle   *service.WordleService
	logic    *service.LogicService
	assembly *service.AssemblyService
}

func NewGameController(games *service.GameService, hangman *service.HangmanService, wordle *service.WordleService, logic *service.LogicService, assembly *service.AssemblyService) *GameController {
	return &GameController{
		games:    games,
		hangman:  hangman,
		wordle:   wordle,
		logic:    logic,
		assembly: assembly,
	}
}

// respondError maps the service sentinel errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSessionNotFound), errors.Is(err, util.ErrExamNotFound):
		util.NotFound(c, err.Error())
	case errors.Is(err, util.ErrGameOver):
		util.Conflict(c, err.Error())
	case errors.Is(err, util.ErrInvalidInput), errors.Is(err, util.ErrUnknownGameType):
		util.BadRequest(c, err.Error())
	case errors.Is(err, util.ErrInvalidContent), errors.Is(err, util.ErrContentGeneration):
		util.BadGateway(c, err.Error())
	default:
		util.LogInternalError(c, err)
	}
}

type createGameRequest struct {
	GameType   string `json:"game_type" binding:"required"`
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
}

type createPuzzleRequest struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
}

type guessRequest struct {
	GameID string `json:"game_id" binding:"required"`
	Guess  string `json:"guess" binding:"required"`
}

// CreateGame godoc
// @Summary Start a new game of any type
// @Tags games
// @Accept json
// @Produce json
// @Param request body createGameRequest true "game type, topic and difficulty"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 502 {object} util.Response
// @Router /api/v1/games [post]
func (gc *GameController) CreateGame(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	gameType, ok := model.ParseGameType(req.GameType)
	if !ok {
		respondError(c, util.ErrUnknownGameType)
		return
	}

	result, err := gc.games.CreateGame(c.Request.Context(), gameType, req.Topic, model.ParseDifficulty(req.Difficulty))
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, result)
}

// CreateHangman godoc
// @Summary Start a hangman game
// @Tags games
// @Accept json
// @Produce json
// @Param request body createPuzzleRequest true "topic and difficulty"
// @Success 201 {object} util.Response
// @Router /api/v1/games/hangman [post]
func (gc *GameController) CreateHangman(c *gin.Context) {
	var req createPuzzleRequest
	c.ShouldBindJSON(&req)

	result, err := gc.hangman.Create(c.Request.Context(), req.Topic, model.ParseDifficulty(req.Difficulty))
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, result)
}

// GuessHangman godoc
// @Summary Submit a hangman letter or word guess
// @Tags games
// @Accept json
// @Produce json
// @Param request body guessRequest true "game id and guess"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/v1/games/hangman/guess [post]
func (gc *GameController) GuessHangman(c *gin.Context) {
	var req guessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	result, err := gc.hangman.Guess(c.Request.Context(), req.GameID, req.Guess)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, result)
}

// CreateWordle godoc
// @Summary Start a wordle game
// @Tags games
// @Accept json
// @Produce json
// @Param request body createPuzzleRequest true "topic and difficulty"
// @Success 201 {object} util.Response
// @Router /api/v1/games/wordle [post]
func (gc *GameController) CreateWordle(c *gin.Context) {
	var req createPuzzleRequest
	c.ShouldBindJSON(&req)

	result, err := gc.wordle.Create(c.Request.Context(), req.Topic, model.ParseDifficulty(req.Difficulty))
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, result)
}

// GuessWordle godoc
// @Summary Submit a 5-letter wordle guess
// @Tags games
// @Accept json
// @Produce json
// @Param request body guessRequest true "game id and guess"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/v1/games/wordle/guess [post]
func (gc *GameController) GuessWordle(c *gin.Context) {
	var req guessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	result, err := gc.wordle.Guess(c.Request.Context(), req.GameID, req.Guess)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, result)
}

// CreateLogic godoc
// @Summary Start a logic circuit game
// @Tags games
// @Accept json
// @Produce json
// @Param request body createPuzzleRequest true "difficulty"
// @Success 201 {object} util.Response
// @Router /api/v1/games/logic [post]
func (gc *GameController) CreateLogic(c *gin.Context) {
	var req createPuzzleRequest
	c.ShouldBindJSON(&req)

	result, err := gc.logic.Create(c.Request.Context(), model.ParseDifficulty(req.Difficulty))
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, result)
}

type logicAnswerRequest struct {
	GameID     string           `json:"game_id" binding:"required"`
	TruthTable []model.TruthRow `json:"truth_table" binding:"required"`
}

// AnswerLogic godoc
// @Summary Submit a completed truth table
// @Tags games
// @Accept json
// @Produce json
// @Param request body logicAnswerRequest true "game id and truth table"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/v1/games/logic/answer [post]
func (gc *GameController) AnswerLogic(c *gin.Context) {
	var req logicAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	result, err := gc.logic.Submit(c.Request.Context(), req.GameID, req.TruthTable)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, result)
}

// CreateAssembly godoc
// @Summary Start an assembly bug hunt
// @Tags games
// @Accept json
// @Produce json
// @Param request body createPuzzleRequest true "difficulty"
// @Success 201 {object} util.Response
// @Router /api/v1/games/assembly [post]
func (gc *GameController) CreateAssembly(c *gin.Context) {
	var req createPuzzleRequest
	c.ShouldBindJSON(&req)

	result, err := gc.assembly.Create(c.Request.Context(), model.ParseDifficulty(req.Difficulty))
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, result)
}

type assemblyAnswerRequest struct {
	GameID      string `json:"game_id" binding:"required"`
	Explanation string `json:"explanation" binding:"required"`
}

// AnswerAssembly godoc
// @Summary Submit a bug explanation for grading
// @Tags games
// @Accept json
// @Produce json
// @Param request body assemblyAnswerRequest true "game id and explanation"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/v1/games/assembly/answer [post]
func (gc *GameController) AnswerAssembly(c *gin.Context) {
	var req assemblyAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	result, err := gc.assembly.Submit(c.Request.Context(), req.GameID, req.Explanation)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, result)
}

// Status godoc
// @Summary Current state of a game session
// @Tags games
// @Produce json
// @Param gameType path string true "game type"
// @Param gameID path string true "game id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/games/status/{gameType}/{gameID} [get]
func (gc *GameController) Status(c *gin.Context) {
	gameType, ok := model.ParseGameType(c.Param("gameType"))
	if !ok {
		respondError(c, util.ErrUnknownGameType)
		return
	}

	status, err := gc.games.Status(gameType, c.Param("gameID"))
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, status)
}

// Delete godoc
// @Summary Delete a game session
// @Tags games
// @Produce json
// @Param gameType path string true "game type"
// @Param gameID path string true "game id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/games/{gameType}/{gameID} [delete]
func (gc *GameController) Delete(c *gin.Context) {
	gameType, ok := model.ParseGameType(c.Param("gameType"))
	if !ok {
		respondError(c, util.ErrUnknownGameType)
		return
	}

	if err := gc.games.Delete(gameType, c.Param("gameID")); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, gin.H{"deleted": true})
}
