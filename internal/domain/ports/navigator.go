package ports

import "net/url"

// Navigator é o host de navegação que executa os redirecionamentos dos guards
type Navigator interface {
	NavigateTo(path string, query url.Values)
	RedirectToLogin(returnURL string)
	RedirectToAccessDenied(attemptedRoute, returnURL string)
}
