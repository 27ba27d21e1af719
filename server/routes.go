package server

func (s *Server) initRoutes() error {
	index, err := s.IndexHandler()
	if err != nil {
		return err
	}
	loginPage, err := s.LoginPageHandler()
	if err != nil {
		return err
	}
	protected, err := s.ProtectedHandler()
	if err != nil {
		return err
	}

	s.RegisterRouteHandler("GET /{$}", ChainMiddleware(index, s.HTMLMiddleWare()...))
	s.RegisterRouteFunc("GET "+RouteStatic+"{file}", s.StaticHandler())

	// LOGIN
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(loginPage, s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteAuthStart, ChainMiddleware(s.StartLoginHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteAuthStart, ChainMiddleware(s.StartLoginHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteCallback, ChainMiddleware(s.OAuthCallbackHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))

	// Protected routes (require a signed in session)
	s.RegisterRouteHandler("GET "+RouteProtected, ChainMiddleware(protected, s.HTMLMiddleWare(s.RequireSessionAuth())...))
	return nil
}
