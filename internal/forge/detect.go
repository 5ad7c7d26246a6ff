package forge

// Detect returns the forge for a hostname, or nil for unrecognized
// hosts. The hosts map (from config) lets self-hosted instances map a
// custom domain to a forge type, e.g. "github.mycompany.com" = "github";
// it takes precedence over the built-in table.
func Detect(hostname string, hosts map[string]string) Forge {
	if forgeType, ok := hosts[hostname]; ok {
		return forgeByType(forgeType, hostname)
	}

	if hostname == "github.com" {
		return &GitHub{Host: hostname}
	}

	return nil
}

func forgeByType(forgeType, hostname string) Forge {
	switch forgeType {
	case "github":
		return &GitHub{Host: hostname}
	default:
		return nil
	}
}
