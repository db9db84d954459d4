package storage

// SetDeployment stores the last deployment made to a guild.
func (s *Storage) SetDeployment(guildID string, dep DeploymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}

	record.LastDeployment = &dep
	return s.putGuildRecord(guildID, record)
}

// GetDeployment returns the last deployment made to a guild, if any.
func (s *Storage) GetDeployment(guildID string) (*DeploymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.LastDeployment, nil
}
