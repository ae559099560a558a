package kafka

import "fmt"

// TopicPrefix namespaces all topics produced by this system.
const TopicPrefix = "backoffice"

// Topic builds a fully qualified topic name: <prefix>.<domain>.<action>.
func Topic(domain, action string) string {
	return fmt.Sprintf("%s.%s.%s", TopicPrefix, domain, action)
}
