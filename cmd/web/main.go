// @title           Feedback API
// @version         1.0
// @description     Feedback collection service: accounts, feedback submission and live analytics.
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:4000
// @BasePath        /
// @securityDefinitions.apikey SessionCookie
// @in              cookie
// @name            feedback_session

package main

import (
	_ "feedback_backend/docs"
	"feedback_backend/internal/app"
)

func main() {
	app.Run()
}
