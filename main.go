package main

import (
	"campuschat/cmd/app"
)

func main() {
	app.GetApp().LetsGo()
}
