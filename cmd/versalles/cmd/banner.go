package cmd

import (
	"fmt"
)

const banner = `
 __      __                 _ _
 \ \    / /                | | |
  \ \  / /__ _ __ ___  __ _| | | ___  ___
   \ \/ / _ \ '__/ __|/ _` + "`" + ` | | |/ _ \/ __|
    \  /  __/ |  \__ \ (_| | | |  __/\__ \
     \/ \___|_|  |___/\__,_|_|_|\___||___/

`

func printBanner() {
	fmt.Printf("\x1b[35m%s\x1b[0m", banner)
	fmt.Printf("\x1b[32m  RPG Community Platform - Version %s\x1b[0m\n\n", Version)
}
