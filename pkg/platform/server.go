package platform

import (
	"encoding/json"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Server serves the GraphQL and REST APIs using fasthttp
type Server struct {
	platform *Platform
	logger   *zap.Logger
	router   *router.Router
}

func NewServer(platform *Platform, logger *zap.Logger) *Server {
	s := &Server{
		platform: platform,
		logger:   logger,
		router:   router.New(),
	}

	s.setupRoutes()
	return s
}

func (s *Server) Start(addr string) error {
	s.logger.Info("Starting userdock server", zap.String("addr", addr))

	handler := s.corsMiddleware(s.router.Handler)

	return fasthttp.ListenAndServe(addr, handler)
}

// Handler returns the HTTP handler
func (s *Server) Handler() fasthttp.RequestHandler {
	return s.corsMiddleware(s.router.Handler)
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleHome)
	s.router.GET("/api/health", s.handleHealth)

	// GraphQL
	s.router.POST("/graphql", s.handleGraphQL)
	s.router.GET("/graphql", s.handleGraphQLOrPlayground)

	// REST mirror of the same four operations
	s.router.GET("/api/v1/users", s.handleRestList)
	s.router.POST("/api/v1/users", s.handleRestCreate)
	s.router.GET("/api/v1/users/{id}", s.handleRestGet)
	s.router.DELETE("/api/v1/users/{id}", s.handleRestDelete)
}

// Helpers
func jsonResponse(ctx *fasthttp.RequestCtx, code int, data interface{}) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(code)
	if err := json.NewEncoder(ctx).Encode(data); err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
	}
}

func errorResponse(ctx *fasthttp.RequestCtx, code int, message string) {
	jsonResponse(ctx, code, map[string]string{"error": message})
}

// Handlers

func (s *Server) handleHome(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("text/plain")
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.WriteString("userdock: GraphQL + MongoDB user service running!")
}

func (s *Server) handleHealth(ctx *fasthttp.RequestCtx) {
	if err := s.platform.store.Ping(ctx); err != nil {
		jsonResponse(ctx, fasthttp.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}

	jsonResponse(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGraphQL(ctx *fasthttp.RequestCtx) {
	var body struct {
		Query     string                 `json:"query"`
		Operation string                 `json:"operationName"`
		Variables map[string]interface{} `json:"variables"`
	}

	if err := json.Unmarshal(ctx.PostBody(), &body); err != nil {
		errorResponse(ctx, fasthttp.StatusBadRequest, "Invalid request body")
		return
	}

	result := s.platform.gqlEngine.Execute(ctx, body.Query, body.Variables)
	jsonResponse(ctx, fasthttp.StatusOK, result)
}

func (s *Server) handleGraphQLOrPlayground(ctx *fasthttp.RequestCtx) {
	queryArgs := ctx.QueryArgs()
	if queryArgs.Has("query") {
		query := string(queryArgs.Peek("query"))
		result := s.platform.gqlEngine.Execute(ctx, query, nil)
		jsonResponse(ctx, fasthttp.StatusOK, result)
		return
	}

	ctx.SetContentType("text/html")
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.WriteString(graphiqlHTML)
}

// Middleware

func (s *Server) corsMiddleware(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		ctx.Response.Header.Set("Access-Control-Allow-Origin", "*")
		ctx.Response.Header.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		ctx.Response.Header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if string(ctx.Method()) == "OPTIONS" {
			ctx.SetStatusCode(fasthttp.StatusNoContent)
			return
		}
		next(ctx)
	}
}

const graphiqlHTML = `
<!DOCTYPE html>
<html>
  <head>
    <title>userdock GraphiQL</title>
    <link href="https://unpkg.com/graphiql/graphiql.min.css" rel="stylesheet" />
  </head>
  <body style="margin: 0;">
    <div id="graphiql" style="height: 100vh;"></div>
    <script
      crossorigin
      src="https://unpkg.com/react/umd/react.production.min.js"
    ></script>
    <script
      crossorigin
      src="https://unpkg.com/react-dom/umd/react-dom.production.min.js"
    ></script>
    <script
      crossorigin
      src="https://unpkg.com/graphiql/graphiql.min.js"
    ></script>
    <script>
      const fetcher = GraphiQL.createFetcher({
        url: '/graphql',
      });
      ReactDOM.render(
        React.createElement(GraphiQL, { fetcher: fetcher }),
        document.getElementById('graphiql'),
      );
    </script>
  </body>
</html>
`
